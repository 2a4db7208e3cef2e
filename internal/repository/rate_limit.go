package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitRepository counts requests per key over a fixed window. Keys are
// caller-defined (typically "rl:<route>:<client ip>").
type RateLimitRepository interface {
	// Allow increments the counter for key and reports whether the count is
	// still within limit for the window. The first increment sets the window
	// expiry. Errors mean the limiter backend is unavailable.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RedisRateLimitRepository は Redis INCR + EXPIRE による固定ウィンドウ実装
type RedisRateLimitRepository struct {
	client *redis.Client
}

// NewRedisRateLimitRepository は RedisRateLimitRepository を生成する
func NewRedisRateLimitRepository(client *redis.Client) *RedisRateLimitRepository {
	return &RedisRateLimitRepository{client: client}
}

var _ RateLimitRepository = (*RedisRateLimitRepository)(nil)

func (r *RedisRateLimitRepository) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	if count == 1 {
		// Window starts with the first request.
		r.client.Expire(ctx, key, window)
	}
	return count <= int64(limit), nil
}
