package services

import (
	"context"
	"time"

	"jielong/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// ClosingMessage 作品完结时由系统追加的最后一条
	ClosingMessage = "（全文完）"
	systemNickname = "系统"
)

// Quorum 完结所需票数：参与人数过半，至少 1 票
func Quorum(contributors int64) int64 {
	q := contributors/2 + 1
	if q < 1 {
		return 1
	}
	return q
}

type workTally struct {
	votes        int64
	contributors int64
}

// tallyWork 统计票数与参与人数，系统身份不计入参与人数
func tallyWork(ctx context.Context, db *gorm.DB, workID string) (workTally, error) {
	var t workTally
	if err := db.WithContext(ctx).Model(&models.Vote{}).
		Where("work_id = ?", workID).
		Count(&t.votes).Error; err != nil {
		return t, err
	}
	if err := db.WithContext(ctx).Model(&models.Contribution{}).
		Where("work_id = ? AND author_id <> ?", workID, models.SystemAuthorID).
		Distinct("author_id").
		Count(&t.contributors).Error; err != nil {
		return t, err
	}
	return t, nil
}

type VoteResult struct {
	VoteCount int64 `json:"vote_count"`
	Quorum    int64 `json:"quorum"`
	Completed bool  `json:"completed"`
	// 投票已生效但完结失败时非空，可通过 reconcile 补救
	CompletionErr *Error `json:"completion_error,omitempty"`
}

type VoteService struct {
	db        *gorm.DB
	publisher Publisher
	now       func() time.Time
}

func NewVoteService(db *gorm.DB, publisher Publisher) *VoteService {
	return &VoteService{db: db, publisher: publisher, now: time.Now}
}

// Vote 参与过接龙的用户为作品投完结票，票数过半自动完结
func (s *VoteService) Vote(ctx context.Context, workID, voterID string) (*VoteResult, error) {
	if voterID == "" {
		return nil, ErrUnauthenticated
	}

	work, err := findWork(ctx, s.db, workID)
	if err != nil {
		return nil, err
	}
	if !visibleTo(work, voterID) {
		return nil, ErrWorkNotFound
	}

	var contributed int64
	if err := s.db.WithContext(ctx).Model(&models.Contribution{}).
		Where("work_id = ? AND author_id = ?", workID, voterID).
		Count(&contributed).Error; err != nil {
		return nil, TranslateStoreError(err)
	}
	if contributed == 0 {
		return nil, ErrMustContributeFirst
	}

	var voted int64
	if err := s.db.WithContext(ctx).Model(&models.Vote{}).
		Where("work_id = ? AND voter_id = ?", workID, voterID).
		Count(&voted).Error; err != nil {
		return nil, TranslateStoreError(err)
	}
	if voted > 0 {
		return nil, ErrAlreadyVoted
	}

	now := s.now().UTC()
	vote := models.Vote{ID: uuid.NewString(), WorkID: workID, VoterID: voterID, CreatedAt: now}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&vote).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyVoted
		}
		return nil, TranslateStoreError(err)
	}

	// 以下失败不回滚投票
	result := &VoteResult{}
	completed, err := s.settle(ctx, workID, now, result)
	if err != nil {
		zap.L().Error("Vote recorded but completion failed",
			zap.String("work_id", workID), zap.String("voter", voterID), zap.Error(err))
		result.CompletionErr = TranslateStoreError(err)
	}
	result.Completed = completed

	publish(ctx, s.publisher, Event{Type: EventVoteCast, WorkID: workID, ActorID: voterID, At: now})
	if completed {
		publish(ctx, s.publisher, Event{Type: EventWorkFinished, WorkID: workID, ActorID: voterID, At: now})
	}
	return result, nil
}

// settle 重新计票，达到门槛且仍在创作中则完结
func (s *VoteService) settle(ctx context.Context, workID string, now time.Time, result *VoteResult) (bool, error) {
	t, err := tallyWork(ctx, s.db, workID)
	if err != nil {
		return false, err
	}
	result.VoteCount = t.votes
	result.Quorum = Quorum(t.contributors)
	if t.votes < result.Quorum {
		return false, nil
	}
	return s.complete(ctx, workID, now)
}

// complete 状态更新与完结条目在同一事务中写入。
// 条件更新保证并发投票时只有一个请求追加完结条目。
func (s *VoteService) complete(ctx context.Context, workID string, now time.Time) (bool, error) {
	completed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Work{}).
			Where("id = ? AND status = ?", workID, models.StatusWriting).
			Updates(map[string]interface{}{"status": models.StatusFinished, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		closing := models.Contribution{
			ID:             uuid.NewString(),
			WorkID:         workID,
			AuthorID:       models.SystemAuthorID,
			AuthorNickname: systemNickname,
			Content:        ClosingMessage,
			Day:            now.Format(time.DateOnly),
			CreatedAt:      now,
		}
		if err := tx.Create(&closing).Error; err != nil {
			return err
		}
		completed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return completed, nil
}

// Reconcile 补救投票已过半但未完结的作品，返回本次完结的作品 ID
func (s *VoteService) Reconcile(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.Work{}).
		Where("status = ? AND id IN (?)", models.StatusWriting,
			s.db.WithContext(ctx).Model(&models.Vote{}).Select("work_id")).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, TranslateStoreError(err)
	}

	now := s.now().UTC()
	var finished []string
	for _, id := range ids {
		var result VoteResult
		completed, err := s.settle(ctx, id, now, &result)
		if err != nil {
			zap.L().Error("Reconcile failed", zap.String("work_id", id), zap.Error(err))
			continue
		}
		if !completed {
			continue
		}
		zap.L().Info("Work completed by reconcile", zap.String("work_id", id),
			zap.Int64("votes", result.VoteCount), zap.Int64("quorum", result.Quorum))
		publish(ctx, s.publisher, Event{Type: EventWorkFinished, WorkID: id, At: now})
		finished = append(finished, id)
	}
	return finished, nil
}
