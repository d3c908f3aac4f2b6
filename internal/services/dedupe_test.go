package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateKey(t *testing.T) {
	a := duplicateKey("u1", "春天")
	assert.Equal(t, a, duplicateKey("u1", "春天"))
	assert.NotEqual(t, a, duplicateKey("u2", "春天"))
	assert.NotEqual(t, a, duplicateKey("u1", "夏天"))
	assert.True(t, strings.HasPrefix(a, "jielong:dup:u1:"))
	assert.Len(t, duplicateKey("u1", strings.Repeat("长", 100)), len(a))
}

func TestDBGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	guard := NewDBGuard(env.db)
	work := env.createWork(t, "owner", "春天")

	seen, err := guard.Seen(ctx, "owner", "春天", work.CreatedAt.Add(9*time.Second))
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = guard.Seen(ctx, "owner", "春天", work.CreatedAt.Add(DuplicateWindow))
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = guard.Seen(ctx, "owner", "夏天", work.CreatedAt)
	require.NoError(t, err)
	assert.False(t, seen)
}
