package state

import (
	"errors"
	"fmt"
)

// Validation failures. Commands wrap them in a *ValidationError naming the field.
var (
	ErrEmptyName         = errors.New("name is required")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
	ErrInvalidAmount     = errors.New("amount is not a number")
	ErrDeadlineNotFuture = errors.New("deadline must be in the future")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrUnknownFrequency  = errors.New("unknown frequency")
	ErrDuplicateBudget   = errors.New("a budget with this name already exists")
	ErrDuplicateID       = errors.New("id is used more than once")
	ErrNotFound          = errors.New("not found")
	ErrGoalCompleted     = errors.New("goal is already completed")
)

// ValidationError reports which input field was rejected.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsValidation reports whether err is a user input problem rather than an
// I/O failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
