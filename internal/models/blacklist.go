package models

import (
	"time"
)

// BlacklistEntry 屏蔽词：普通词按子串匹配，正则按模式匹配，均不区分大小写
type BlacklistEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Pattern   string    `gorm:"size:200;not null" json:"pattern" yaml:"pattern"`
	IsRegex   bool      `gorm:"default:false" json:"is_regex" yaml:"is_regex"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
}
