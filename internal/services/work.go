package services

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"jielong/internal/models"
	"jielong/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	titleMinLen = 2
	titleMaxLen = 100
	perPage     = 30
)

type CreateWorkInput struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	SubCategory string `json:"sub_category"`
	Rule        string `json:"rule"`
	License     string `json:"license"`
}

type UpdateWorkInput struct {
	Title string `json:"title"`
}

type ListWorksInput struct {
	ViewerID string
	Category string
	Status   string
	Page     int
}

type WorkService struct {
	db        *gorm.DB
	profiles  *ProfileService
	guard     DuplicateGuard
	publisher Publisher
	now       func() time.Time
}

func NewWorkService(db *gorm.DB, profiles *ProfileService, guard DuplicateGuard, publisher Publisher) *WorkService {
	if guard == nil {
		guard = NewDBGuard(db)
	}
	return &WorkService{
		db:        db,
		profiles:  profiles,
		guard:     guard,
		publisher: publisher,
		now:       time.Now,
	}
}

// SanitizeTitle 去除标记并 trim，结果幂等
func SanitizeTitle(title string) string {
	return utils.StripMarkup(title)
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < titleMinLen {
		return ErrTitleTooShort
	}
	if n > titleMaxLen {
		return ErrTitleTooLong
	}
	return nil
}

func (s *WorkService) Create(ctx context.Context, ownerID string, in CreateWorkInput) (*models.Work, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}

	title := SanitizeTitle(in.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	seen, err := s.guard.Seen(ctx, ownerID, title, now)
	if err != nil {
		// 防重检查失败时放行，依赖客户端自行避免重复
		zap.L().Warn("Duplicate guard failed", zap.String("owner", ownerID), zap.Error(err))
	} else if seen {
		return nil, ErrDuplicateSubmission
	}

	work := models.Work{
		ID:              uuid.NewString(),
		Title:           title,
		Category:        mapCategory(in.Category),
		SubCategory:     mapSubCategory(in.SubCategory),
		Rule:            mapRule(in.Rule),
		Visibility:      visibilityForLicense(in.License),
		Status:          models.StatusWriting,
		CreatorID:       ownerID,
		CreatorNickname: s.profiles.Nickname(ctx, ownerID),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.db.WithContext(ctx).Create(&work).Error; err != nil {
		zap.L().Error("Failed to create work", zap.String("owner", ownerID), zap.Error(err))
		return nil, TranslateStoreError(err)
	}

	publish(ctx, s.publisher, Event{Type: EventWorkCreated, WorkID: work.ID, ActorID: ownerID, At: now})
	return &work, nil
}

// loadOwned 先按 ID 查询再比较作者，区分 NotFound 与 Forbidden
func (s *WorkService) loadOwned(ctx context.Context, workID, ownerID string) (*models.Work, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	work, err := findWork(ctx, s.db, workID)
	if err != nil {
		return nil, err
	}
	if work.CreatorID != ownerID {
		return nil, ErrForbidden
	}
	return work, nil
}

// Update 只允许修改标题
func (s *WorkService) Update(ctx context.Context, workID, ownerID string, in UpdateWorkInput) (*models.Work, error) {
	work, err := s.loadOwned(ctx, workID, ownerID)
	if err != nil {
		return nil, err
	}

	title := SanitizeTitle(in.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	res := s.db.WithContext(ctx).Model(&models.Work{}).
		Where("id = ? AND creator_id = ?", work.ID, ownerID).
		Updates(map[string]interface{}{"title": title, "updated_at": now})
	if res.Error != nil {
		return nil, TranslateStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		// 读取之后被删除
		return nil, ErrWorkNotFound
	}
	work.Title = title
	work.UpdatedAt = now

	publish(ctx, s.publisher, Event{Type: EventWorkUpdated, WorkID: work.ID, ActorID: ownerID, At: now})
	return work, nil
}

// Delete 物理删除，接龙与投票随外键级联删除
func (s *WorkService) Delete(ctx context.Context, workID, ownerID string) error {
	work, err := s.loadOwned(ctx, workID, ownerID)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Where("id = ? AND creator_id = ?", work.ID, ownerID).Delete(&models.Work{})
	if res.Error != nil {
		return TranslateStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrWorkNotFound
	}

	publish(ctx, s.publisher, Event{Type: EventWorkDeleted, WorkID: work.ID, ActorID: ownerID, At: s.now().UTC()})
	return nil
}

// Get 作品详情，私密作品只对作者可见
func (s *WorkService) Get(ctx context.Context, workID, viewerID string) (*models.Work, error) {
	var work models.Work
	err := s.db.WithContext(ctx).
		Preload("Contributions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", workID).
		First(&work).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkNotFound
		}
		return nil, TranslateStoreError(err)
	}
	if !visibleTo(&work, viewerID) {
		return nil, ErrWorkNotFound
	}

	t, err := tallyWork(ctx, s.db, work.ID)
	if err != nil {
		return nil, TranslateStoreError(err)
	}
	work.VoteCount = t.votes
	work.ContributorCount = t.contributors
	work.Quorum = Quorum(t.contributors)
	return &work, nil
}

// List 公开作品加上当前用户自己的私密作品，按创建时间倒序
func (s *WorkService) List(ctx context.Context, in ListWorksInput) ([]models.Work, int64, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}

	query := s.db.WithContext(ctx).Model(&models.Work{})
	if in.ViewerID != "" {
		query = query.Where("visibility = ? OR creator_id = ?", models.VisibilityPublic, in.ViewerID)
	} else {
		query = query.Where("visibility = ?", models.VisibilityPublic)
	}
	if in.Category != "" {
		query = query.Where("category = ?", mapCategory(in.Category))
	}
	if in.Status != "" {
		query = query.Where("status = ?", in.Status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, TranslateStoreError(err)
	}

	var works []models.Work
	if err := query.Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&works).Error; err != nil {
		return nil, 0, TranslateStoreError(err)
	}
	return works, total, nil
}

func visibleTo(work *models.Work, viewerID string) bool {
	return work.Visibility != models.VisibilityPrivate || work.CreatorID == viewerID
}

func findWork(ctx context.Context, db *gorm.DB, workID string) (*models.Work, error) {
	var work models.Work
	if err := db.WithContext(ctx).Where("id = ?", workID).First(&work).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkNotFound
		}
		return nil, TranslateStoreError(err)
	}
	return &work, nil
}

// TotalPages 列表总页数，至少 1 页
func TotalPages(total int64) int {
	pages := int((total + perPage - 1) / perPage)
	if pages == 0 {
		return 1
	}
	return pages
}
