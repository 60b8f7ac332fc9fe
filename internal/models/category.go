package models

import (
	"time"
)

// Category groups articles. Every article belongs to exactly one category,
// so a category cannot be deleted while articles still reference it.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"unique;not null" json:"name"`
	Slug      string    `gorm:"unique;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Articles  []Article `gorm:"foreignKey:CategoryID" json:"articles,omitempty"`
	// ArticleCount is not persisted; computed at query time
	ArticleCount int64 `gorm:"-" json:"article_count"`
}
