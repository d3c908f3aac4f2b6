package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"jielong/internal/db"
	"jielong/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Publish(_ context.Context, ev Event) error {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

type testEnv struct {
	db            *gorm.DB
	clock         *fakeClock
	events        *recorder
	moderation    *ModerationService
	profiles      *ProfileService
	works         *WorkService
	contributions *ContributionService
	votes         *VoteService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	// 内存库每个连接都是独立的数据库
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(conn))
	return conn
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn := setupTestDB(t)
	clock := &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	events := &recorder{}

	moderation := NewModerationService(conn, 0)
	profiles := NewProfileService(conn, moderation)
	works := NewWorkService(conn, profiles, nil, events)
	works.now = clock.Now
	contributions := NewContributionService(conn, moderation, profiles, events)
	contributions.now = clock.Now
	votes := NewVoteService(conn, events)
	votes.now = clock.Now

	return &testEnv{
		db:            conn,
		clock:         clock,
		events:        events,
		moderation:    moderation,
		profiles:      profiles,
		works:         works,
		contributions: contributions,
		votes:         votes,
	}
}

func (e *testEnv) createWork(t *testing.T, ownerID, title string) *models.Work {
	t.Helper()
	work, err := e.works.Create(context.Background(), ownerID, CreateWorkInput{Title: title})
	require.NoError(t, err)
	return work
}

func (e *testEnv) contribute(t *testing.T, workID, authorID, content string) {
	t.Helper()
	_, err := e.contributions.Submit(context.Background(), workID, authorID, content)
	require.NoError(t, err)
	// 保证接龙的时间顺序
	e.clock.Advance(time.Second)
}

func (e *testEnv) addBlacklist(t *testing.T, pattern string, isRegex bool) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.BlacklistEntry{Pattern: pattern, IsRegex: isRegex}).Error)
}
