package models

import (
	"time"
)

type Announcement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Upvotes   int       `gorm:"not null;default:0" json:"upvotes"`
	Comments  []Comment `gorm:"polymorphic:Target;polymorphicValue:announcement" json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
