// Package ratelimit provides the per-client request quota stores used
// by the booking endpoint's rate-limit middleware.
//
// Two Store implementations exist behind one interface: an in-memory
// token-bucket store for single-process deployments, and a Redis
// counter store for horizontally scaled ones. The middleware owns the
// store; no other component reads or writes it.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a quota check for one request.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool

	// RetryAfter is the recommended wait before retrying when the
	// request is denied. Zero means no recommendation.
	RetryAfter time.Duration
}

// Store decides whether a request from the given client key is within
// quota, atomically counting the request against the client's window.
//
// Implementations must be safe for concurrent use.
type Store interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
