package services

import (
	"time"

	"gorm.io/gorm"
)

// Services 进程内共享的业务服务
type Services struct {
	Moderation    *ModerationService
	Profiles      *ProfileService
	Works         *WorkService
	Contributions *ContributionService
	Votes         *VoteService
}

type Options struct {
	BlacklistTTL time.Duration
	// Guard 为空时使用数据库查询防重
	Guard     DuplicateGuard
	Publisher Publisher
}

func New(db *gorm.DB, opts Options) *Services {
	moderation := NewModerationService(db, opts.BlacklistTTL)
	profiles := NewProfileService(db, moderation)
	return &Services{
		Moderation:    moderation,
		Profiles:      profiles,
		Works:         NewWorkService(db, profiles, opts.Guard, opts.Publisher),
		Contributions: NewContributionService(db, moderation, profiles, opts.Publisher),
		Votes:         NewVoteService(db, opts.Publisher),
	}
}
