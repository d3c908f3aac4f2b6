package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"jielong/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const contentMaxLen = 200

type ContributionService struct {
	db         *gorm.DB
	moderation *ModerationService
	profiles   *ProfileService
	publisher  Publisher
	now        func() time.Time
}

func NewContributionService(db *gorm.DB, moderation *ModerationService, profiles *ProfileService, publisher Publisher) *ContributionService {
	return &ContributionService{
		db:         db,
		moderation: moderation,
		profiles:   profiles,
		publisher:  publisher,
		now:        time.Now,
	}
}

// startOfUTCDay 每日额度按 UTC 自然日计算
func startOfUTCDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Submit 为作品追加一条接龙，每人每个作品每天一条
func (s *ContributionService) Submit(ctx context.Context, workID, authorID, content string) (*models.Contribution, error) {
	if authorID == "" {
		return nil, ErrUnauthenticated
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > contentMaxLen {
		return nil, ErrContentTooLong
	}
	if pattern, hit := s.moderation.CheckViolation(ctx, content); hit {
		return nil, ForbiddenContent(pattern)
	}

	work, err := findWork(ctx, s.db, workID)
	if err != nil {
		return nil, err
	}
	if !visibleTo(work, authorID) {
		return nil, ErrWorkNotFound
	}
	if work.IsFinished() {
		return nil, ErrWorkFinished
	}

	now := s.now().UTC()
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Contribution{}).
		Where("work_id = ? AND author_id = ? AND created_at >= ?", workID, authorID, startOfUTCDay(now)).
		Count(&count).Error; err != nil {
		return nil, TranslateStoreError(err)
	}
	if count > 0 {
		return nil, ErrDailyLimitExceeded
	}

	contribution := models.Contribution{
		ID:             uuid.NewString(),
		WorkID:         workID,
		AuthorID:       authorID,
		AuthorNickname: s.profiles.Nickname(ctx, authorID),
		Content:        content,
		Day:            now.Format(time.DateOnly),
		CreatedAt:      now,
	}
	if err := s.db.WithContext(ctx).Create(&contribution).Error; err != nil {
		// 并发提交时由 (work_id, author_id, day) 唯一索引兜底
		if isUniqueViolation(err) {
			return nil, ErrDailyLimitExceeded
		}
		zap.L().Error("Failed to insert contribution", zap.String("work_id", workID), zap.String("author", authorID), zap.Error(err))
		return nil, TranslateStoreError(err)
	}

	publish(ctx, s.publisher, Event{Type: EventContributionCreated, WorkID: workID, ActorID: authorID, At: now})
	return &contribution, nil
}
