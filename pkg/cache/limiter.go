package cache

import (
	"context"
	"time"
)

// AttemptLimiter counts failures per subject and locks the subject once
// max failures happen within window. The lock lasts for window.
type AttemptLimiter struct {
	cache  Cache
	prefix string
	max    int64
	window time.Duration
}

// NewAttemptLimiter builds a limiter; keyFormat is one of the Key* formats with a single %s.
func NewAttemptLimiter(c Cache, keyFormat string, max int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{cache: c, prefix: keyFormat, max: int64(max), window: window}
}

func (l *AttemptLimiter) counterKey(subject string) string {
	return formatKey(l.prefix, subject)
}

func (l *AttemptLimiter) lockKey(subject string) string {
	return l.counterKey(subject) + ":locked"
}

// Locked reports whether subject is locked and for how long.
func (l *AttemptLimiter) Locked(ctx context.Context, subject string) (bool, time.Duration, error) {
	ttl, err := l.cache.TTL(ctx, l.lockKey(subject))
	if err != nil {
		return false, 0, err
	}
	// -2: no key, -1: no expiry
	if ttl == -2 {
		return false, 0, nil
	}
	if ttl < 0 {
		return true, l.window, nil
	}
	return true, ttl, nil
}

// Fail records one failure and returns the remaining attempts.
// Zero means the subject is now locked.
func (l *AttemptLimiter) Fail(ctx context.Context, subject string) (int, error) {
	key := l.counterKey(subject)

	n, err := l.cache.Increment(ctx, key)
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := l.cache.Expire(ctx, key, l.window); err != nil {
			return 0, err
		}
	}

	if n >= l.max {
		if err := l.cache.Set(ctx, l.lockKey(subject), n, l.window); err != nil {
			return 0, err
		}
		_ = l.cache.Delete(ctx, key)
		return 0, nil
	}
	return int(l.max - n), nil
}

// Reset clears failures after a success.
func (l *AttemptLimiter) Reset(ctx context.Context, subject string) error {
	return l.cache.Delete(ctx, l.counterKey(subject), l.lockKey(subject))
}
