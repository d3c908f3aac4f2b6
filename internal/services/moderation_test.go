package services

import (
	"context"
	"testing"
	"time"

	"jielong/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckViolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addBlacklist(t, "Spam", false)
	env.addBlacklist(t, `(unclosed`, true)
	env.addBlacklist(t, `^\d{3}-\d{4}$`, true)
	env.addBlacklist(t, `fr[e3]e\s+money`, true)

	tests := []struct {
		name    string
		text    string
		pattern string
		hit     bool
	}{
		{"empty", "", "", false},
		{"whitespace", "  \n ", "", false},
		{"clean", "春眠不觉晓", "", false},
		{"literal case insensitive", "buy SPAM now", "Spam", true},
		{"regex after malformed entry", "555-1234", `^\d{3}-\d{4}$`, true},
		{"regex case insensitive", "FR3E   Money", `fr[e3]e\s+money`, true},
		{"first match wins", "spam 555-1234", "Spam", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern, hit := env.moderation.CheckViolation(ctx, tt.text)
			assert.Equal(t, tt.hit, hit)
			assert.Equal(t, tt.pattern, pattern)
		})
	}
}

func TestCheckViolation_FailsOpen(t *testing.T) {
	env := newTestEnv(t)
	env.addBlacklist(t, "spam", false)
	require.NoError(t, env.db.Migrator().DropTable(&models.BlacklistEntry{}))

	_, hit := env.moderation.CheckViolation(context.Background(), "spam")
	assert.False(t, hit)
}

func TestModerationCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	moderation := NewModerationService(env.db, time.Minute)

	_, hit := moderation.CheckViolation(ctx, "spam")
	assert.False(t, hit)

	// 绕过管理接口写入，缓存未失效前不可见
	env.addBlacklist(t, "spam", false)
	_, hit = moderation.CheckViolation(ctx, "spam")
	assert.False(t, hit)

	moderation.Invalidate()
	_, hit = moderation.CheckViolation(ctx, "spam")
	assert.True(t, hit)

	// 通过管理接口写入立即生效
	entry, err := moderation.AddEntry(ctx, " eggs ", false)
	require.NoError(t, err)
	assert.Equal(t, "eggs", entry.Pattern)
	pattern, hit := moderation.CheckViolation(ctx, "green EGGS")
	assert.True(t, hit)
	assert.Equal(t, "eggs", pattern)

	require.NoError(t, moderation.DeleteEntry(ctx, entry.ID))
	_, hit = moderation.CheckViolation(ctx, "green eggs")
	assert.False(t, hit)
}

func TestBlacklistAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.moderation.AddEntry(ctx, "   ", false)
	require.Error(t, err)
	assert.Equal(t, ReasonInvalidPattern, err.(*Error).Reason)

	_, err = env.moderation.AddEntry(ctx, "(bad", true)
	require.Error(t, err)
	assert.Equal(t, CodeValidationFailed, CodeOf(err))
	assert.Equal(t, ReasonInvalidPattern, err.(*Error).Reason)

	_, err = env.moderation.AddEntry(ctx, "a", false)
	require.NoError(t, err)
	_, err = env.moderation.AddEntry(ctx, "b+", true)
	require.NoError(t, err)

	entries, err := env.moderation.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Pattern)
	assert.True(t, entries[1].IsRegex)

	err = env.moderation.DeleteEntry(ctx, 999)
	assert.True(t, IsCode(err, CodeNotFound))
}
