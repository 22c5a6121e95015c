package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// RedisStore is a fixed-window counter Store backed by Redis, for
// deployments where the quota must be shared across processes.
//
// Each client key maps to a counter that expires when its window
// elapses; INCR keeps the increment-and-compare atomic across
// instances.
type RedisStore struct {
	client   *redis.Client
	requests int
	window   time.Duration
}

// NewRedisStore creates a RedisStore allowing `requests` per `window`
// per client key.
func NewRedisStore(client *redis.Client, requests int, window time.Duration) *RedisStore {
	return &RedisStore{
		client:   client,
		requests: requests,
		window:   window,
	}
}

// Allow implements Store.
//
// On Redis failure the decision is to allow: a broken counter backend
// degrades the quota, it does not take the booking endpoint down. The
// error is returned so the caller can log it.
func (s *RedisStore) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := redisKeyPrefix + key

	// The increment and the expiry travel in one transaction. NX pins
	// the window start to the first hit and re-arms a counter whose
	// expiry was lost (e.g. a crash between INCR and EXPIRE), so no
	// client stays rate-limited past its window.
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{Allowed: true}, err
	}

	count := incr.Val()

	if count > int64(s.requests) {
		retryAfter := s.window
		if ttl, err := s.client.TTL(ctx, redisKey).Result(); err == nil && ttl > 0 {
			retryAfter = ttl
		}
		return Decision{Allowed: false, RetryAfter: retryAfter}, nil
	}

	return Decision{Allowed: true}, nil
}
