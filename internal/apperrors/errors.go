// Package apperrors defines the error taxonomy shared by services and
// handlers. Every error here is recoverable by the caller.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Type classifies an application error
type Type string

const (
	TypeDuplicateUsername  Type = "duplicate_username"
	TypeInvalidCredentials Type = "invalid_credentials"
	TypeNotFound           Type = "not_found"
	TypeInvalidTransition  Type = "invalid_transition"
	TypeValidation         Type = "validation"
	TypeForbidden          Type = "forbidden"
	TypeTooManyAttempts    Type = "too_many_attempts"
	TypeInternal           Type = "internal"
)

// Error is a typed application error carrying an HTTP status
type Error struct {
	Type       Type   `json:"type"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// DuplicateUsername indicates the username is already registered
func DuplicateUsername(username string) *Error {
	return &Error{
		Type:       TypeDuplicateUsername,
		Message:    fmt.Sprintf("username %q is already taken", username),
		HTTPStatus: http.StatusConflict,
	}
}

// InvalidCredentials indicates an unknown username or wrong password
func InvalidCredentials() *Error {
	return &Error{
		Type:       TypeInvalidCredentials,
		Message:    "invalid username or password",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NotFound indicates the resource is absent for the given identity
func NotFound(resource string) *Error {
	return &Error{
		Type:       TypeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// InvalidTransition indicates a status change violates the state machine
func InvalidTransition(from, to string) *Error {
	return &Error{
		Type:       TypeInvalidTransition,
		Message:    fmt.Sprintf("cannot transition appointment from %s to %s", from, to),
		HTTPStatus: http.StatusConflict,
	}
}

// Validation indicates a missing or malformed field
func Validation(message string) *Error {
	return &Error{
		Type:       TypeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Forbidden indicates the caller's role does not permit the operation
func Forbidden(message string) *Error {
	return &Error{
		Type:       TypeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// TooManyAttempts indicates the account is temporarily locked out
func TooManyAttempts() *Error {
	return &Error{
		Type:       TypeTooManyAttempts,
		Message:    "too many failed login attempts, try again later",
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// Internal wraps an unexpected failure
func Internal(err error) *Error {
	return &Error{
		Type:       TypeInternal,
		Message:    "internal error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsType reports whether err is an application error of the given type
func IsType(err error, t Type) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Type == t
}

// HTTPStatus returns the HTTP status for err, defaulting to 500
func HTTPStatus(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
