package services

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// 事件类型，下游据此刷新作品页与列表页
const (
	EventWorkCreated         = "work.created"
	EventWorkUpdated         = "work.updated"
	EventWorkDeleted         = "work.deleted"
	EventWorkFinished        = "work.finished"
	EventContributionCreated = "contribution.created"
	EventVoteCast            = "vote.cast"
)

type Event struct {
	Type    string    `json:"type"`
	WorkID  string    `json:"work_id"`
	ActorID string    `json:"actor_id,omitempty"`
	At      time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Publishers 依次投递给所有订阅方
type Publishers []Publisher

func (ps Publishers) Publish(ctx context.Context, ev Event) error {
	var firstErr error
	for _, p := range ps {
		if err := p.Publish(ctx, ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// publish 投递失败只记录日志，不影响主流程
func publish(ctx context.Context, p Publisher, ev Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		zap.L().Warn("Failed to publish event",
			zap.String("type", ev.Type), zap.String("work_id", ev.WorkID), zap.Error(err))
	}
}
