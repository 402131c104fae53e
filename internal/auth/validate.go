package auth

import (
	"strings"

	"github.com/theirongolddev/fintrack/internal/state"
)

// SignUpInput is the registration form.
type SignUpInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

// SignInInput is the login form.
type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateSignUp checks the registration form before any provider is called.
func ValidateSignUp(in SignUpInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &state.ValidationError{Field: "name", Err: state.ErrEmptyName}
	}
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if len(in.Password) < MinPasswordLength {
		return &state.ValidationError{Field: "password", Err: ErrPasswordTooShort}
	}
	if in.Password != in.Confirm {
		return &state.ValidationError{Field: "confirm", Err: ErrPasswordMismatch}
	}
	return nil
}

// ValidateSignIn checks the login form.
func ValidateSignIn(in SignInInput) error {
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if in.Password == "" {
		return &state.ValidationError{Field: "password", Err: ErrEmptyPassword}
	}
	return nil
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return &state.ValidationError{Field: "email", Err: ErrEmptyEmail}
	}
	return nil
}

// NormalizeEmail lowercases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
