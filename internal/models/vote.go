package models

import (
	"time"
)

// Vote 完结投票，每个用户对每个作品只能投一次
type Vote struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	WorkID    string    `gorm:"size:36;not null;index;uniqueIndex:idx_work_voter" json:"work_id"`
	Work      Work      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	VoterID   string    `gorm:"size:36;not null;uniqueIndex:idx_work_voter" json:"voter_id"`
	CreatedAt time.Time `json:"created_at"`
}
