package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingPublisher struct{ err error }

func (f failingPublisher) Publish(context.Context, Event) error { return f.err }

func TestPublishersFanOut(t *testing.T) {
	first, second := &recorder{}, &recorder{}
	boom := errors.New("broker down")
	ps := Publishers{first, failingPublisher{err: boom}, second}

	err := ps.Publish(context.Background(), Event{Type: EventWorkCreated, WorkID: "w1"})
	assert.ErrorIs(t, err, boom)
	// 某个订阅方失败不影响其他订阅方
	assert.Equal(t, []string{EventWorkCreated}, first.types())
	assert.Equal(t, []string{EventWorkCreated}, second.types())

	// publish 吞掉错误，nil 也安全
	publish(context.Background(), ps, Event{Type: EventVoteCast})
	publish(context.Background(), nil, Event{Type: EventVoteCast})
	assert.Len(t, first.types(), 2)
}
