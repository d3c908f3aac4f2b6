package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"jielong/internal/models"
	"jielong/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const blacklistCacheKey = "blacklist:rules"

// ModerationService 屏蔽词检测与管理
type ModerationService struct {
	db    *gorm.DB
	cache *utils.Cache
	ttl   time.Duration
}

// NewModerationService ttl 为 0 时每次检测都重新读取屏蔽词表
func NewModerationService(db *gorm.DB, ttl time.Duration) *ModerationService {
	return &ModerationService{
		db:    db,
		cache: utils.NewCache(4),
		ttl:   ttl,
	}
}

type rule struct {
	pattern string
	literal string
	re      *regexp.Regexp
}

func (r rule) match(lowered string) bool {
	if r.re != nil {
		return r.re.MatchString(lowered)
	}
	return strings.Contains(lowered, r.literal)
}

// compileRules 非法正则记录日志后跳过，不影响后续条目
func compileRules(entries []models.BlacklistEntry) []rule {
	rules := make([]rule, 0, len(entries))
	for _, e := range entries {
		if e.IsRegex {
			re, err := regexp.Compile("(?i)" + e.Pattern)
			if err != nil {
				zap.L().Warn("Skipping malformed blacklist regex",
					zap.Uint("id", e.ID), zap.String("pattern", e.Pattern), zap.Error(err))
				continue
			}
			rules = append(rules, rule{pattern: e.Pattern, re: re})
			continue
		}
		if e.Pattern == "" {
			continue
		}
		rules = append(rules, rule{pattern: e.Pattern, literal: strings.ToLower(e.Pattern)})
	}
	return rules
}

func (s *ModerationService) loadRules(ctx context.Context) ([]rule, error) {
	if s.ttl > 0 {
		if cached, ok := s.cache.Get(blacklistCacheKey).([]rule); ok {
			return cached, nil
		}
	}

	var entries []models.BlacklistEntry
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	rules := compileRules(entries)

	if s.ttl > 0 {
		s.cache.Set(blacklistCacheKey, rules, s.ttl)
	}
	return rules, nil
}

// CheckViolation 返回第一个命中的屏蔽词。读取失败时放行，不阻断正常使用。
func (s *ModerationService) CheckViolation(ctx context.Context, text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	rules, err := s.loadRules(ctx)
	if err != nil {
		zap.L().Error("Failed to load blacklist, allowing content", zap.Error(err))
		return "", false
	}

	lowered := strings.ToLower(text)
	for _, r := range rules {
		if r.match(lowered) {
			return r.pattern, true
		}
	}
	return "", false
}

// Invalidate 屏蔽词变更后清除缓存
func (s *ModerationService) Invalidate() {
	s.cache.Delete(blacklistCacheKey)
}

func (s *ModerationService) ListEntries(ctx context.Context) ([]models.BlacklistEntry, error) {
	var entries []models.BlacklistEntry
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, TranslateStoreError(err)
	}
	return entries, nil
}

// AddEntry 写入时校验正则，读取端仍然容忍历史遗留的非法条目
func (s *ModerationService) AddEntry(ctx context.Context, pattern string, isRegex bool) (*models.BlacklistEntry, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, validation(ReasonInvalidPattern, "屏蔽词不能为空")
	}
	if isRegex {
		if _, err := regexp.Compile("(?i)" + pattern); err != nil {
			return nil, &Error{Code: CodeValidationFailed, Reason: ReasonInvalidPattern, Message: "正则表达式无效", Err: err}
		}
	}

	entry := models.BlacklistEntry{Pattern: pattern, IsRegex: isRegex}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, TranslateStoreError(err)
	}
	s.Invalidate()
	zap.L().Info("Blacklist entry added", zap.Uint("id", entry.ID), zap.String("pattern", pattern), zap.Bool("regex", isRegex))
	return &entry, nil
}

func (s *ModerationService) DeleteEntry(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.BlacklistEntry{}, id)
	if res.Error != nil {
		return TranslateStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		return newError(CodeNotFound, "屏蔽词不存在")
	}
	s.Invalidate()
	return nil
}
