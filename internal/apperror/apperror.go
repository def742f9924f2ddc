// Package apperror defines the application's error taxonomy.
//
// Services return *AppError values wrapping one of the sentinel kinds
// below. HTTP handlers map the kinds to status codes with errors.Is and
// send only the Message field to clients — wrapped internal detail stays
// in the server logs.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrCSRFState       = errors.New("oauth state invalid")
	ErrSelfRank        = errors.New("self ranking forbidden")
	ErrAuthExchange    = errors.New("token exchange failed")
	ErrProfileFetch    = errors.New("profile fetch failed")
	ErrPersistence     = errors.New("storage failure")
)

type AppError struct {
	Err     error  // sentinel kind, possibly wrapping an underlying cause
	Message string // Human-readable message, safe to show to clients
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthenticated means no valid session is present. API handlers map this
// to 401; page handlers redirect to /login.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: message,
	}
}

// CSRFState means the OAuth state token was missing, already consumed, or
// did not match. The caller must restart the login flow from scratch.
func CSRFState(message string) *AppError {
	return &AppError{
		Err:     ErrCSRFState,
		Message: message,
	}
}

// SelfRank is returned when a user tries to rank the person linked to
// their own Discord account.
func SelfRank() *AppError {
	return &AppError{
		Err:     ErrSelfRank,
		Message: "you cannot rank yourself",
	}
}

// AuthExchange wraps a failure to trade an authorization code for tokens.
// The underlying cause is kept for logging; clients see a generic message.
func AuthExchange(cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrAuthExchange, cause),
		Message: "failed to obtain access token from Discord",
	}
}

// ProfileFetch wraps a failure to load a profile from the identity provider.
func ProfileFetch(cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrProfileFetch, cause),
		Message: "failed to fetch user information from Discord",
	}
}

// Persistence wraps a storage-layer failure. The cause (which may contain
// SQL fragments or file paths) is logged server-side only.
func Persistence(op string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s: %w", ErrPersistence, op, cause),
		Message: "a storage error occurred",
	}
}
