package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CheckAndSetSourceRateLimit guards a refresh of one source adapter. Returns
// false while a previous refresh lock is still live.
func CheckAndSetSourceRateLimit(ctx context.Context, rdb *redis.Client, sourceID string, limit time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("rate_limit:source:%s", sourceID)

	wasSet, err := rdb.SetNX(ctx, key, "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func GetSourceRateLimitTTL(ctx context.Context, rdb *redis.Client, sourceID string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	key := fmt.Sprintf("rate_limit:source:%s", sourceID)
	return rdb.TTL(ctx, key).Result()
}
