package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is the contract for the cache layer.
// Redis backs it in production, cachetest.Memory in tests.
type Cache interface {
	// Get loads key into dest.
	// found=false on miss, dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	Ping(ctx context.Context) error

	DeletePattern(ctx context.Context, pattern string) error

	// Counters (failed login, verification attempts, rate limits)
	Increment(ctx context.Context, key string) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// Key helpers shared by repositories and services.
const (
	KeyCategoryList  = "waste_categories:list:%t"
	KeyRewardList    = "rewards:list:%t"
	KeyUserByID      = "user:%s"
	KeyLoginFailures = "auth:failed_login:%s"
	KeyVerifyAttempt = "donation:verify_attempts:%s"
)

func formatKey(format, subject string) string {
	return fmt.Sprintf(format, subject)
}
