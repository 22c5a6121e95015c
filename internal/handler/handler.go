// Package handler is the entry point for business logic after the
// router.
//
// It binds and validates request payloads using the validation
// package, calls the service layer, and shapes the HTTP response. It
// is the boundary between the HTTP surface and the core logic.
package handler
