package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every layer. Callers branch with errors.Is and
// must never parse error strings.
var (
	// ErrNetwork marks transport failures where no HTTP response arrived
	// (DNS, refused connection, timeout).
	ErrNetwork = errors.New("network unreachable")

	// ErrAuthRequired means the operation needs a session and none is stored.
	ErrAuthRequired = errors.New("authentication required")

	// ErrInvalidCredentials is a rejected login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized means the backend rejected the presented token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the session is valid but not allowed to act on the
	// resource, such as deleting another user's job.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the referenced resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate means the resource already exists: a repeated application,
	// an already-saved job, or a taken email.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrInvalidInput is client-side or server-side input validation failure.
	ErrInvalidInput = errors.New("invalid input")

	// ErrWeakPassword is raised before any network call when a signup
	// password does not meet the minimum length.
	ErrWeakPassword = errors.New("password must be at least 6 characters")

	// ErrMalformedResponse means the backend answered 2xx but the body did
	// not carry the expected shape.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrServer covers 5xx responses that carry no finer classification.
	ErrServer = errors.New("server error")
)

// APIError carries the HTTP status and server-provided message alongside the
// sentinel that classifies it, so errors.Is keeps working through the wrap.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func NewAPIError(status int, message string, kind error) *APIError {
	return &APIError{Status: status, Message: message, Err: kind}
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
