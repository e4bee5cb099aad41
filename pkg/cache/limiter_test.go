package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recycle-rewards-backend/pkg/cache"
	"recycle-rewards-backend/pkg/cache/cachetest"
)

func TestAttemptLimiterLocksAfterMax(t *testing.T) {
	ctx := context.Background()
	mem := cachetest.New()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	mem.SetClock(func() time.Time { return now })

	l := cache.NewAttemptLimiter(mem, cache.KeyLoginFailures, 3, 15*time.Minute)

	for want := 2; want >= 1; want-- {
		left, err := l.Fail(ctx, "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, want, left)
	}

	locked, _, err := l.Locked(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, locked)

	left, err := l.Fail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Zero(t, left)

	locked, ttl, err := l.Locked(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, locked)
	assert.Equal(t, 15*time.Minute, ttl)

	other, _, _ := l.Locked(ctx, "b@example.com")
	assert.False(t, other)

	now = now.Add(16 * time.Minute)
	locked, _, err = l.Locked(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestAttemptLimiterWindowExpiresCounter(t *testing.T) {
	ctx := context.Background()
	mem := cachetest.New()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	mem.SetClock(func() time.Time { return now })

	l := cache.NewAttemptLimiter(mem, cache.KeyVerifyAttempt, 2, time.Minute)

	_, err := l.Fail(ctx, "req-1")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	left, err := l.Fail(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, 1, left)
}

func TestAttemptLimiterReset(t *testing.T) {
	ctx := context.Background()
	mem := cachetest.New()
	l := cache.NewAttemptLimiter(mem, cache.KeyVerifyAttempt, 1, time.Minute)

	_, err := l.Fail(ctx, "req-2")
	require.NoError(t, err)
	locked, _, _ := l.Locked(ctx, "req-2")
	require.True(t, locked)

	require.NoError(t, l.Reset(ctx, "req-2"))
	locked, _, _ = l.Locked(ctx, "req-2")
	assert.False(t, locked)
}
