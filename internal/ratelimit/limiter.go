// Package ratelimit implements per-identity request counting over a fixed
// window with sliding expiry.
package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CounterStore is the atomic increment-and-expire capability the limiter
// depends on. Increment must bump the counter for key and (re)set its expiry
// to window in a single indivisible operation.
type CounterStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Limiter tracks request counts per key. The store is injected at
// construction; its lifecycle (open/close) belongs to the caller.
type Limiter struct {
	store  CounterStore
	limit  int
	window time.Duration
	logger *zap.Logger
}

// NewLimiter builds a limiter allowing limit requests per window.
func NewLimiter(store CounterStore, limit int, window time.Duration, logger *zap.Logger) *Limiter {
	if window <= 0 {
		window = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{store: store, limit: limit, window: window, logger: logger}
}

// Increment bumps the counter for key and returns the count within the
// current window. When the store is unreachable it returns 0 and logs a
// warning: the limiter fails open rather than rejecting traffic.
func (l *Limiter) Increment(ctx context.Context, key string) int64 {
	count, err := l.store.Increment(ctx, key, l.window)
	if err != nil {
		l.logger.Warn("rate counter unavailable, failing open",
			zap.String("key", key), zap.Error(err))
		return 0
	}
	return count
}

// Limit returns the configured per-window request budget.
func (l *Limiter) Limit() int {
	return l.limit
}
