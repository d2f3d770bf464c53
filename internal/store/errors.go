// Package store defines the persistence contract shared by the sqlite
// implementation and its consumers: sentinel errors and query option types.
package store

import (
	"fmt"
	"net/http"
)

// Error is a store-level error with an HTTP status code.
// Engine-specific failures (constraint violation messages, driver codes)
// are translated into these before they leave the storage package, so
// callers only ever match on the sentinels below.
type Error struct {
	Code    int    // HTTP status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// Is matches any *Error with the same code, so
// errors.Is(err, store.ErrNotFound) works for WithMessage variants too.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code && e.Message == t.Message
}

// WithMessage returns a new error with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{
		Code:    e.Code,
		Message: msg,
		Err:     e.Err,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// Sentinel errors.
var (
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
	}

	ErrAlreadyExists = &Error{
		Code:    http.StatusConflict,
		Message: "resource already exists",
	}

	// ErrInvalidReference marks an insert whose parent row vanished between
	// validation and execution (foreign key violation).
	ErrInvalidReference = &Error{
		Code:    http.StatusConflict,
		Message: "referenced resource does not exist",
	}

	ErrForbidden = &Error{
		Code:    http.StatusForbidden,
		Message: "forbidden",
	}

	ErrInvalidInput = &Error{
		Code:    http.StatusBadRequest,
		Message: "invalid input",
	}
)

// Common named variants.
var (
	ErrEmailExists        = ErrAlreadyExists.WithMessage("email already in use")
	ErrLinkExists         = ErrAlreadyExists.WithMessage("bullet is already associated with this experience")
	ErrLinkNotFound       = ErrNotFound.WithMessage("association not found")
	ErrUserNotFound       = ErrNotFound.WithMessage("user not found")
	ErrJobNotFound        = ErrNotFound.WithMessage("job not found")
	ErrBulletNotFound     = ErrNotFound.WithMessage("bullet not found")
	ErrExperienceNotFound = ErrNotFound.WithMessage("experience not found")
	ErrSessionNotFound    = ErrNotFound.WithMessage("session not found")
	ErrNotOwner           = ErrForbidden.WithMessage("resource belongs to another user")
	ErrParentMissing      = ErrNotFound.WithMessage("experience or bullet not found")
)
