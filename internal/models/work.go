package models

import (
	"time"
)

type Category string

const (
	CategoryProse  Category = "prose"  // 散文
	CategoryPoetry Category = "poetry" // 诗歌
	CategoryNovel  Category = "novel"  // 小说
)

// WritingRule 接龙规则：每人每天一句，或每人每天一个字
type WritingRule string

const (
	RuleSentence  WritingRule = "sentence"
	RuleCharacter WritingRule = "character"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

type WorkStatus string

const (
	StatusWriting       WorkStatus = "writing"
	StatusFinished      WorkStatus = "finished"
	StatusPendingReview WorkStatus = "pending_review"
)

type Work struct {
	ID              string      `gorm:"primaryKey;size:36" json:"id"`
	Title           string      `gorm:"size:100;not null" json:"title"`
	Category        Category    `gorm:"size:20;not null;index" json:"category"`
	SubCategory     string      `gorm:"size:30" json:"sub_category"`
	Rule            WritingRule `gorm:"size:20;not null" json:"rule"`
	Visibility      Visibility  `gorm:"size:10;not null;default:'public';index" json:"visibility"`
	Status          WorkStatus  `gorm:"size:20;not null;default:'writing';index" json:"status"`
	CreatorID       string      `gorm:"size:36;not null;index:idx_creator_title" json:"creator_id"`
	CreatorNickname string      `gorm:"size:50" json:"creator_nickname"`
	CreatedAt       time.Time   `gorm:"index:idx_creator_title" json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	// 非数据库字段，详情页查询时填充
	Contributions    []Contribution `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"contributions,omitempty"`
	VoteCount        int64          `gorm:"-" json:"vote_count"`
	ContributorCount int64          `gorm:"-" json:"contributor_count"`
	Quorum           int64          `gorm:"-" json:"quorum"`
}

// IsFinished 已完结作品不再接受新的接龙
func (w *Work) IsFinished() bool {
	return w.Status == StatusFinished
}
