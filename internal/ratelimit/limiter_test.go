package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisCounterStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCounterStore(client), mr
}

func TestRedisCounterStore_SequentialIncrements(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 5; want++ {
		got, err := store.Increment(ctx, "user:7", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestRedisCounterStore_IndependentKeys(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first, err := store.Increment(ctx, "user:1", time.Minute)
	require.NoError(t, err)
	second, err := store.Increment(ctx, "user:2", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(1), second)
}

func TestRedisCounterStore_ExpiryResetOnEveryIncrement(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	_, err := store.Increment(ctx, "user:7", time.Minute)
	require.NoError(t, err)

	// Half the window passes; another request must push the expiry back out
	// to the full window, so the counter survives past the original deadline.
	mr.FastForward(30 * time.Second)
	count, err := store.Increment(ctx, "user:7", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	mr.FastForward(45 * time.Second)
	count, err = store.Increment(ctx, "user:7", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count, "expiry must be reset on every increment, not just the first")
}

func TestRedisCounterStore_CounterResetsAfterIdleWindow(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	_, err := store.Increment(ctx, "ip:10.0.0.5", time.Minute)
	require.NoError(t, err)

	mr.FastForward(61 * time.Second)
	count, err := store.Increment(ctx, "ip:10.0.0.5", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestLimiter_FailsOpenWhenStoreUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	limiter := NewLimiter(NewRedisCounterStore(client), 3, time.Minute, nil)

	mr.Close()

	count := limiter.Increment(context.Background(), "user:7")
	assert.Equal(t, int64(0), count)
}

func TestLimiter_ReportsCountWithinWindow(t *testing.T) {
	store, _ := newTestStore(t)
	limiter := NewLimiter(store, 3, time.Minute, nil)
	ctx := context.Background()

	for want := int64(1); want <= 4; want++ {
		assert.Equal(t, want, limiter.Increment(ctx, "api:9"))
	}
	assert.Equal(t, 3, limiter.Limit())
}
