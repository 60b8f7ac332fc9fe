package models

import (
	"time"
)

// Subscription is a newsletter signup. It is created unverified with a random
// token; the token exchange on the verify endpoint flips Verified.
type Subscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Verified  bool      `gorm:"not null;default:false" json:"verified"`
	Token     string    `gorm:"unique;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
