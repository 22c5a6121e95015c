// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns: the
// gatekeeping guards (body size, CORS origins, per-client rate
// limiting), request correlation, request logging, panic recovery,
// and the global error handler.
package middleware
