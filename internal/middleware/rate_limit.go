package middleware

import (
	"math"
	"net"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/consultwise/booking-api/internal/errs"
	"github.com/consultwise/booking-api/internal/server"
)

// RateLimitMiddleware enforces the per-client request quota on the
// booking endpoint. It owns the server's rate store; nothing else
// reads or writes the counters.
type RateLimitMiddleware struct {
	server *server.Server
}

// NewRateLimitMiddleware constructs the middleware over the server's
// configured store.
func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns the enforcement middleware. A request over quota gets
// 429 with a retryAfter hint (and Retry-After header) and never
// reaches the handler. A failing store decision degrades open: the
// request proceeds and the store error is logged.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := ClientIP(c)

			dec, err := r.server.RateStore.Allow(c.Request().Context(), key)
			if err != nil {
				GetLogger(c).Error().Err(err).Str("client", key).Msg("rate limit store error")
			}

			if !dec.Allowed {
				retryAfter := int(math.Ceil(dec.RetryAfter.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				return errs.NewTooManyRequestsError(
					"Too many booking requests, please try again later",
					retryAfter,
				)
			}

			return next(c)
		}
	}
}

// ClientIP resolves the client network identity used as the rate-limit
// key: first hop of X-Forwarded-For, then X-Real-IP, then the remote
// address with its port stripped.
func ClientIP(c echo.Context) string {
	if xff := c.Request().Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 && strings.TrimSpace(parts[0]) != "" {
			return strings.TrimSpace(parts[0])
		}
	}

	if xri := c.Request().Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	addr := c.Request().RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	if addr != "" {
		return addr
	}
	return "unknown"
}
