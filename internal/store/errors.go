package store

import (
	"fmt"
	"net/http"
)

// Error is a store error with an HTTP status code.
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

// Is reports whether target matches this error by status code. This lets
// entity-specific sentinels like ErrBookNotFound satisfy errors.Is against
// the generic ErrNotFound.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
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

	ErrInvalidInput = &Error{
		Code:    http.StatusBadRequest,
		Message: "invalid input",
	}
)

// Entity-specific not-found sentinels. Services match on these to produce
// precise messages while handlers can still catch the generic 404 class.
var (
	ErrUserNotFound      = ErrNotFound.WithMessage("user not found")
	ErrSessionNotFound   = ErrNotFound.WithMessage("session not found")
	ErrAuthorNotFound    = ErrNotFound.WithMessage("author not found")
	ErrBookNotFound      = ErrNotFound.WithMessage("book not found")
	ErrCategoryNotFound  = ErrNotFound.WithMessage("category not found")
	ErrShelfBookNotFound = ErrNotFound.WithMessage("shelf book not found")
	ErrLibraryNotFound   = ErrNotFound.WithMessage("library not found")
	ErrLibrarianNotFound = ErrNotFound.WithMessage("librarian not found")
	ErrPostNotFound      = ErrNotFound.WithMessage("post not found")
	ErrCommentNotFound   = ErrNotFound.WithMessage("comment not found")
	ErrTagNotFound       = ErrNotFound.WithMessage("tag not found")
)
