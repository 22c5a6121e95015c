// Package errs defines the error types returned to API clients.
//
// Every rejected request produces the same JSON shape: an "error"
// message, a machine-readable code, the HTTP status, and optionally
// field-level details (validation) or a retry hint (rate limiting).
package errs
