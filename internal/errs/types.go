package errs

import (
	"net/http"
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// details carries per-field validation errors and may be nil for
// malformed-payload cases where no field can be named.
func NewBadRequestError(message string, details []FieldError) *HTTPError {
	return &HTTPError{
		Message: message,
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest)),
		Status:  http.StatusBadRequest,
		Details: details,
	}
}

// NewForbiddenError creates a 403 Forbidden HTTPError.
func NewForbiddenError(message string) *HTTPError {
	return &HTTPError{
		Message: message,
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusForbidden)),
		Status:  http.StatusForbidden,
	}
}

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError
// carrying a retry hint in seconds.
func NewTooManyRequestsError(message string, retryAfterSeconds int) *HTTPError {
	return &HTTPError{
		Message:    message,
		Code:       MakeUpperCaseWithUnderscores(http.StatusText(http.StatusTooManyRequests)),
		Status:     http.StatusTooManyRequests,
		RetryAfter: retryAfterSeconds,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, never the underlying error:
// transport and provider details are logged for operators, not
// returned to the caller.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Message: http.StatusText(http.StatusInternalServerError),
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Status:  http.StatusInternalServerError,
	}
}
