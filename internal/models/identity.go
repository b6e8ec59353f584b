package models

import (
	"time"
)

// Identity 匿名身份锚点，只保存用户名的哈希，不保存原始用户名
type Identity struct {
	Hash      string    `gorm:"primaryKey;size:64" json:"hash"`
	CreatedAt time.Time `json:"created_at"`
}
