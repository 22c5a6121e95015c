package middleware

import (
	"github.com/consultwise/booking-api/internal/server"
)

// Middlewares groups all middleware components used by the HTTP
// server, so router setup receives one object instead of many and
// shared dependencies are wired in a single place.
type Middlewares struct {
	// Global holds the middleware applied to every route: CORS, body
	// limit, request logging, recovery, secure headers, and the global
	// error handler.
	Global *GlobalMiddlewares

	// ContextEnhancer enriches each request with a request-scoped
	// logger (request_id, method, path, ip).
	ContextEnhancer *ContextEnhancer

	// RateLimit enforces the per-client quota on the booking route.
	RateLimit *RateLimitMiddleware
}

// NewMiddlewares constructs all middleware components from the
// application container.
func NewMiddlewares(s *server.Server) *Middlewares {
	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
