// Package common defines shared constants and the error taxonomy used across
// the server layers. Callers should use errors.Is to match error kinds.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")

	// Error kinds. Every *Error unwraps to exactly one of these.
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Error is a client-facing error: Message is safe to return to the caller,
// Kind decides how the boundary reports it.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewValidationError reports missing or malformed input.
func NewValidationError(msg string) *Error { return &Error{Kind: ErrValidation, Message: msg} }

// NewConflictError reports a uniqueness violation.
func NewConflictError(msg string) *Error { return &Error{Kind: ErrConflict, Message: msg} }

// NewAuthError reports bad credentials or a bad token.
func NewAuthError(msg string) *Error { return &Error{Kind: ErrUnauthorized, Message: msg} }

// NewAuthorizationError reports an authenticated caller without enough privilege.
func NewAuthorizationError(msg string) *Error { return &Error{Kind: ErrForbidden, Message: msg} }

// NewNotFoundError reports a resolved-but-missing resource.
func NewNotFoundError(msg string) *Error { return &Error{Kind: ErrorNotFound, Message: msg} }

var (
	ErrRequiredFields  = NewValidationError("username, email and password are required")
	ErrPasswordTooLong = NewValidationError("password is too long")

	ErrUsernameExists = NewConflictError("username already exists")
	ErrEmailExists    = NewConflictError("email already exists")

	// Login must not reveal whether the account exists, so unknown users and
	// wrong passwords share this value.
	ErrInvalidCredentials = NewAuthError("invalid credentials")

	ErrInvalidToken = NewAuthError("invalid token")
	ErrTokenExpired = NewAuthError("token expired")
	ErrUserNotFound = NewAuthError("user not found")
	ErrMissingToken = NewAuthError("missing or invalid authorization header")

	ErrAdminRequired = NewAuthorizationError("admin access required")
)
