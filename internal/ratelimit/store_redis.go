package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounterStore implements CounterStore on a Redis client.
type RedisCounterStore struct {
	client *redis.Client
}

// NewRedisCounterStore wraps an already-connected client.
func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

// Increment bumps the counter and resets its expiry to window. The expiry is
// reset on every increment, not just the first: a steady stream of requests
// keeps extending the window. Both commands run in one pipeline so two
// concurrent requests never observe a stale count.
func (s *RedisCounterStore) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
