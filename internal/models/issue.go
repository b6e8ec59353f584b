package models

import (
	"time"
)

type Issue struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Upvotes     int       `gorm:"not null;default:0" json:"upvotes"`
	Archived    bool      `gorm:"not null;default:false;index" json:"archived"`
	Comments    []Comment `gorm:"polymorphic:Target;polymorphicValue:issue" json:"comments,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
