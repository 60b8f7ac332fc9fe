package models

import (
	"time"
)

// Tag is optional article metadata. Unlike categories, tags may be deleted
// freely; the association rows are simply dropped.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"unique;not null" json:"name"`
	Slug      string    `gorm:"unique;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Articles  []Article `gorm:"many2many:article_tags" json:"articles,omitempty"`
	// ArticleCount is not persisted; computed at query time
	ArticleCount int64 `gorm:"-" json:"article_count"`
}
