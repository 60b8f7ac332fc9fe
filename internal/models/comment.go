package models

import (
	"time"
)

// Comment moderation states. Every guest-submitted comment starts PENDING and
// only a moderator moves it to APPROVED or SPAM.
const (
	CommentPending  = "PENDING"
	CommentApproved = "APPROVED"
	CommentSpam     = "SPAM"
)

// ValidCommentStatus reports whether s is one of the three moderation states.
func ValidCommentStatus(s string) bool {
	return s == CommentPending || s == CommentApproved || s == CommentSpam
}

// Comment is a guest-authored comment on an article. Replies are threaded via
// ParentID; deleting a comment removes its descendant replies as well.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"not null" json:"content"`
	Author    string    `gorm:"not null" json:"author"`
	Email     string    `json:"email,omitempty"`
	ArticleID uint      `gorm:"not null;index" json:"article_id"`
	Article   Article   `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
	ParentID  *uint     `gorm:"index" json:"parent_id,omitempty"`
	Replies   []Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
	Status    string    `gorm:"not null;default:PENDING" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
