package services

import (
	"context"
	"errors"
	"unicode/utf8"

	"jielong/internal/models"
	"jielong/internal/utils"

	"gorm.io/gorm"
)

// AnonymousNickname 资料缺失或未设置昵称时的占位名
const AnonymousNickname = "匿名用户"

type ProfileService struct {
	db         *gorm.DB
	moderation *ModerationService
}

func NewProfileService(db *gorm.DB, moderation *ModerationService) *ProfileService {
	return &ProfileService{db: db, moderation: moderation}
}

// Nickname 查询失败或昵称为空时返回占位名
func (s *ProfileService) Nickname(ctx context.Context, userID string) string {
	var p models.Profile
	if err := s.db.WithContext(ctx).Select("id", "nickname").Where("id = ?", userID).First(&p).Error; err != nil {
		return AnonymousNickname
	}
	if p.Nickname == "" {
		return AnonymousNickname
	}
	return p.Nickname
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(CodeNotFound, "用户不存在")
		}
		return nil, TranslateStoreError(err)
	}
	return &p, nil
}

// Role 资料不存在时按普通用户处理
func (s *ProfileService) Role(ctx context.Context, userID string) models.Role {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return models.RoleUser
	}
	return models.ParseRole(string(p.Role))
}

// UpdateNickname 昵称必须通过屏蔽词检测
func (s *ProfileService) UpdateNickname(ctx context.Context, userID, nickname string) (*models.Profile, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	nickname = utils.StripMarkup(nickname)
	if n := utf8.RuneCountInString(nickname); n < 2 || n > 20 {
		return nil, ErrNicknameInvalid
	}
	if pattern, hit := s.moderation.CheckViolation(ctx, nickname); hit {
		return nil, ForbiddenContent(pattern)
	}

	var p models.Profile
	err := s.db.WithContext(ctx).
		Where(models.Profile{ID: userID}).
		Assign(models.Profile{Nickname: nickname}).
		FirstOrCreate(&p).Error
	if err != nil {
		return nil, TranslateStoreError(err)
	}
	return &p, nil
}

// SetRole 仅供管理命令使用
func (s *ProfileService) SetRole(ctx context.Context, userID string, role models.Role) error {
	var p models.Profile
	err := s.db.WithContext(ctx).
		Where(models.Profile{ID: userID}).
		Assign(models.Profile{Role: role}).
		FirstOrCreate(&p).Error
	if err != nil {
		return TranslateStoreError(err)
	}
	return nil
}
