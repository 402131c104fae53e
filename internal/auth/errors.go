// Package auth validates credentials forms, issues identity tokens and maps
// identity failures to the messages users see.
package auth

import (
	"errors"

	"github.com/theirongolddev/fintrack/internal/state"
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 6

var (
	ErrEmailInUse       = errors.New("email already in use")
	ErrWrongCredentials = errors.New("invalid email or password")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrInvalidToken     = errors.New("invalid token")
	ErrMissingSecret    = errors.New("token secret is not configured")
	ErrEmptyEmail       = errors.New("email is required")
	ErrEmptyPassword    = errors.New("password is required")
	ErrProviderFailure  = errors.New("identity provider unavailable")
)

// User-facing messages.
const (
	MsgEmailInUse       = "email already registered"
	MsgWrongCredentials = "wrong credentials"
	MsgPasswordMismatch = "passwords do not match"
	MsgPasswordTooShort = "password must be at least 6 characters"
	MsgEmptyPassword    = "password is required"
	MsgGeneric          = "something went wrong, please try again"
)

// Message maps an identity error to the short text shown to the user.
// Validation messages pass through; anything unexpected gets a generic
// message so internal details never reach the screen.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmailInUse):
		return MsgEmailInUse
	case errors.Is(err, ErrWrongCredentials):
		return MsgWrongCredentials
	case errors.Is(err, ErrPasswordMismatch):
		return MsgPasswordMismatch
	case errors.Is(err, ErrPasswordTooShort):
		return MsgPasswordTooShort
	case errors.Is(err, ErrEmptyPassword):
		return MsgEmptyPassword
	case state.IsValidation(err):
		return err.Error()
	default:
		return MsgGeneric
	}
}
