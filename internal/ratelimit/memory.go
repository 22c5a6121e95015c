package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryStore is a token-bucket Store keyed per client, with periodic
// eviction of idle entries so the map does not grow unbounded.
//
// A client gets a bucket holding `requests` tokens that refills evenly
// over `window`, so `requests` submissions are accepted immediately
// and the next one is denied until a token refills.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry

	limit rate.Limit
	burst int

	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type memoryEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// MemoryStoreOption tunes a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithIdleTTL sets how long an idle client entry is kept.
func WithIdleTTL(d time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) { s.idleTTL = d }
}

// WithCleanupEvery sets the eviction sweep interval.
func WithCleanupEvery(d time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) { s.cleanupEvery = d }
}

// NewMemoryStore creates a MemoryStore allowing `requests` per
// `window` per client key.
func NewMemoryStore(requests int, window time.Duration, opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		entries:      make(map[string]*memoryEntry),
		limit:        rate.Limit(float64(requests) / window.Seconds()),
		burst:        requests,
		idleTTL:      window,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow implements Store. The reserve-then-cancel dance yields the
// wait time for a denied request without consuming a token for it.
func (s *MemoryStore) Allow(_ context.Context, key string) (Decision, error) {
	lim := s.get(key)

	r := lim.Reserve()
	if !r.OK() {
		return Decision{Allowed: false, RetryAfter: s.idleTTL}, nil
	}

	if delay := r.Delay(); delay > 0 {
		r.Cancel()
		return Decision{Allowed: false, RetryAfter: delay}, nil
	}

	return Decision{Allowed: true}, nil
}

func (s *MemoryStore) get(key string) *rate.Limiter {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(s.limit, s.burst)
	s.entries[key] = &memoryEntry{lim: lim, lastSeen: now}
	return lim
}

// Cleanup evicts entries not seen within the idle TTL.
func (s *MemoryStore) Cleanup() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor runs Cleanup periodically until ctx is cancelled.
func (s *MemoryStore) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
