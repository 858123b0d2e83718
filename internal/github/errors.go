package github

import (
	"errors"
	"fmt"
)

// AuthError indicates the token was rejected outright (HTTP 401). The
// caller must force re-authentication rather than retry.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (401): %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// PermissionError indicates the token lacks the required scope (HTTP 403).
// It is user-actionable and not retried automatically.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission error (403): %s", e.Message)
}

// IsPermissionError reports whether err is a PermissionError.
func IsPermissionError(err error) bool {
	var permErr *PermissionError
	return errors.As(err, &permErr)
}

// TransientError indicates a network failure or a 5xx response. It is safe
// to retry on the next scheduled or manual refresh; the client never
// retries it within one call.
type TransientError struct {
	Status  int
	Message string
	Cause   error
}

func (e *TransientError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("transient error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("transient network error: %s", e.Message)
}

func (e *TransientError) Unwrap() error { return e.Cause }

// IsTransientError reports whether err is a TransientError.
func IsTransientError(err error) bool {
	var trErr *TransientError
	return errors.As(err, &trErr)
}

// RequestError carries any other non-2xx status with a human-readable
// reason.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("github API error (%d): %s", e.Status, e.Message)
}
