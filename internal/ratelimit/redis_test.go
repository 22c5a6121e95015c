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

func newRedisStore(t *testing.T, requests int, window time.Duration) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, requests, window), mr
}

func TestRedisStore_AllowsUpToQuota(t *testing.T) {
	store, _ := newRedisStore(t, 5, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		dec, err := store.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, dec.Allowed, "request %d should be allowed", i+1)
	}

	dec, err := store.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Greater(t, dec.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, dec.RetryAfter, time.Minute)
}

func TestRedisStore_WindowElapses(t *testing.T) {
	store, mr := newRedisStore(t, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		store.Allow(ctx, "10.0.0.1")
	}

	dec, err := store.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.False(t, dec.Allowed)

	mr.FastForward(time.Minute + time.Second)

	dec, err = store.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, dec.Allowed, "elapsed window should reset the quota")
}

func TestRedisStore_ReArmsCounterWithoutExpiry(t *testing.T) {
	store, mr := newRedisStore(t, 2, time.Minute)
	ctx := context.Background()

	// A counter stranded without an expiry, as left behind by a process
	// dying between the increment and the expire.
	require.NoError(t, mr.Set(redisKeyPrefix+"10.0.0.1", "1"))

	for i := 0; i < 2; i++ {
		store.Allow(ctx, "10.0.0.1")
	}

	dec, err := store.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.False(t, dec.Allowed)

	mr.FastForward(time.Minute + time.Second)

	dec, err = store.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, dec.Allowed, "client must not stay limited past the window")
}

func TestRedisStore_KeysAreIndependent(t *testing.T) {
	store, _ := newRedisStore(t, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		store.Allow(ctx, "10.0.0.1")
	}

	dec, err := store.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, dec.Allowed)
}

func TestRedisStore_FailsOpen(t *testing.T) {
	store, mr := newRedisStore(t, 5, time.Minute)
	ctx := context.Background()

	mr.Close()

	dec, err := store.Allow(ctx, "10.0.0.1")
	require.Error(t, err)
	assert.True(t, dec.Allowed)
}
