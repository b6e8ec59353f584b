package models

import (
	"time"
)

// CouncilMember 学生会成员公开资料
type CouncilMember struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Login          string    `gorm:"size:64;uniqueIndex;not null" json:"login"`
	FirstName      string    `gorm:"size:100" json:"first_name"`
	LastName       string    `gorm:"size:100" json:"last_name"`
	Email          string    `gorm:"size:255" json:"email"`
	ProfilePicture string    `json:"profile_picture"`
	Role           string    `gorm:"size:64" json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
