package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/consultwise/booking-api/internal/errs"
	"github.com/consultwise/booking-api/internal/server"
)

// GlobalMiddlewares groups the middleware applied to every route and
// the global error handler. The struct exists so each middleware can
// read shared dependencies from *server.Server, mainly config and the
// logger.
type GlobalMiddlewares struct {
	server *server.Server
}

// NewGlobalMiddlewares constructs the global middleware bundle.
func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// CORS returns echo's CORS middleware restricted to the configured
// origin allow-list. Only POST is permitted cross-origin, matching the
// single submission method the API exposes.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
		AllowMethods: []string{http.MethodPost},
	})
}

// BodyLimit returns echo's body limit middleware with the configured
// ceiling. Oversized payloads are rejected before parsing starts.
func (global *GlobalMiddlewares) BodyLimit() echo.MiddlewareFunc {
	return middleware.BodyLimit(global.server.Config.Server.BodyLimit)
}

// OriginGuard rejects requests that declare an Origin outside the
// configured allow-list with 403. The CORS middleware only withholds
// response headers and relies on the browser; this guard refuses the
// request itself. Requests without an Origin header (curl, same-origin)
// pass through.
func (global *GlobalMiddlewares) OriginGuard() echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(global.server.Config.Server.CORSAllowedOrigins))
	wildcard := false
	for _, origin := range global.server.Config.Server.CORSAllowedOrigins {
		if origin == "*" {
			wildcard = true
		}
		allowed[origin] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get(echo.HeaderOrigin)
			if origin == "" || wildcard || allowed[origin] {
				return next(c)
			}

			return errs.NewForbiddenError("Origin not allowed")
		}
	}
}

// RequestLogger returns echo's request logger middleware wired to
// zerolog, producing one structured log line per request with severity
// based on the final status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// When a handler returns an error, echo has not written the
			// final status yet; the global error handler decides it
			// later. Derive it from the error type so error requests do
			// not log as 200.
			if v.Error != nil {
				var httpErr *errs.HTTPError
				var echoErr *echo.HTTPError

				if errors.As(v.Error, &httpErr) {
					statusCode = httpErr.Status
				} else if errors.As(v.Error, &echoErr) {
					statusCode = echoErr.Code
				}
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", ClientIP(c)).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover returns echo's panic recovery middleware, turning handler
// panics into 500 responses instead of crashing the process.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure returns echo's secure headers middleware.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler is the final error funnel for the HTTP server.
//
// Every rejected path ends here and is translated into the JSON error
// schema. The original error is logged with full detail for operators;
// the response body never echoes transport or provider internals.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	originalErr := err

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			// Covers echo's own rejections: unknown route (404),
			// method not allowed (405), and the body-limit guard (413).
			message := http.StatusText(echoErr.Code)
			if msg, ok := echoErr.Message.(string); ok {
				message = msg
			}
			httpErr = &errs.HTTPError{
				Message: message,
				Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
				Status:  echoErr.Code,
			}
		} else {
			// Anything unclassified is a safe generic 500.
			httpErr = errs.NewInternalServerError()
		}
	}

	// Same severity mapping as the request logger: client errors are
	// routine, only server errors page anyone.
	logger := GetLogger(c)

	var e *zerolog.Event
	switch {
	case httpErr.Status >= 500:
		e = logger.Error()
	case httpErr.Status >= 400:
		e = logger.Warn()
	default:
		e = logger.Info()
	}

	e.
		Err(originalErr).
		Int("status", httpErr.Status).
		Str("error_code", httpErr.Code).
		Msg(httpErr.Message)

	if !c.Response().Committed {
		if httpErr.RetryAfter > 0 {
			c.Response().Header().Set("Retry-After", strconv.Itoa(httpErr.RetryAfter))
		}
		_ = c.JSON(httpErr.Status, httpErr)
	}
}
