package models

import (
	"time"
)

// Comment 属于某个议题或公告，只能追加，不提供编辑和删除
type Comment struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	TargetType TargetKind `gorm:"size:20;not null;index:idx_comment_target" json:"target_type"`
	TargetID   uint       `gorm:"not null;index:idx_comment_target" json:"target_id"`
	Text       string     `gorm:"type:text;not null" json:"text"`
	Official   bool       `gorm:"not null;default:false" json:"official"` // 学生会官方回复
	Upvotes    int        `gorm:"not null;default:0" json:"upvotes"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
