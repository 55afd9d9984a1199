package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces fixed-window request caps keyed by client and route
// group. A broken Redis fails open: limiting is protection, not availability.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type noopRateLimiter struct{}

func NewNoopRateLimiter() RateLimiter { return noopRateLimiter{} }

func (noopRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return true, nil
}

type redisRateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) RateLimiter {
	return &redisRateLimiter{client: client}
}

func (l *redisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	bucket := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(window.Seconds()))

	count, err := l.client.Incr(ctx, bucket).Result()
	if err != nil {
		log.Printf("[ratelimit] redis incr %s: %v", bucket, err)
		return true, nil
	}
	if count == 1 {
		if err := l.client.Expire(ctx, bucket, window).Err(); err != nil {
			log.Printf("[ratelimit] redis expire %s: %v", bucket, err)
		}
	}
	return count <= int64(limit), nil
}
