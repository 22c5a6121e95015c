package errs

import "strings"

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "email", "error": "must be a valid email address" }
type FieldError struct {
	// Field is the payload field the error relates to (e.g. "email").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// HTTPError is the error type serialized to API clients.
//
// It implements the error interface and is written directly as the
// JSON response body by the global error handler, so its field tags
// are the wire contract.
type HTTPError struct {
	// Message is the human-readable error, serialized under "error".
	Message string `json:"error"`

	// Code is a stable machine-readable code (e.g. "BAD_REQUEST").
	Code string `json:"code"`

	// Status is the HTTP status code of the response.
	Status int `json:"status"`

	// Details holds field-level validation errors, when present.
	Details []FieldError `json:"details,omitempty"`

	// RetryAfter is the retry hint in seconds for 429 responses.
	RetryAfter int `json:"retryAfter,omitempty"`
}

// Error makes *HTTPError satisfy the built-in error interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// MakeUpperCaseWithUnderscores converts a string into
// UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
//
// Used to derive stable machine-readable codes from HTTP status text.
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
