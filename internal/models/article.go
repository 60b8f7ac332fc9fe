package models

import (
	"time"
)

// Article represents a blog post. Mutations are restricted to the author;
// Views is a best-effort counter incremented outside the request path.
type Article struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"not null" json:"title"`
	Slug       string    `gorm:"unique;not null" json:"slug"`
	Content    string    `gorm:"not null" json:"content"`
	Excerpt    string    `json:"excerpt"`
	CoverImage string    `json:"cover_image"`
	Published  bool      `gorm:"not null;default:false" json:"published"`
	Views      uint      `gorm:"not null;default:0" json:"views"`
	CategoryID uint      `gorm:"not null" json:"category_id"`
	Category   Category  `gorm:"foreignKey:CategoryID" json:"category"`
	Tags       []Tag     `gorm:"many2many:article_tags" json:"tags"`
	AuthorID   uint      `gorm:"not null" json:"author_id"`
	Author     User      `gorm:"foreignKey:AuthorID" json:"author"`
	Comments   []Comment `gorm:"foreignKey:ArticleID" json:"comments,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
