package models

import (
	"time"
)

// Vote 一条有效投票。(target_type, target_id, identity) 唯一索引是防重复投票的最终仲裁
type Vote struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	TargetType TargetKind `gorm:"size:20;not null;uniqueIndex:idx_vote_target_identity" json:"target_type"`
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_vote_target_identity" json:"target_id"`
	Identity   string     `gorm:"size:64;not null;uniqueIndex:idx_vote_target_identity;index" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
}
