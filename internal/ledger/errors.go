package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a bill or record is absent or invisible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrDenied is returned when the caller's role lacks the needed capability.
	ErrDenied = errors.New("permission denied")

	// ErrInvalidInput is the parent of every validation failure.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when a write collides with existing state.
	ErrConflict = errors.New("conflict")

	ErrInvalidAmount = &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	ErrInvalidDate   = &ValidationError{Field: "paid_on", Reason: "must be a date in YYYY-MM-DD form from 1900 on"}

	// ErrAmountOutOfRange rejects amounts the ledger cannot store exactly.
	ErrAmountOutOfRange = &ValidationError{Field: "amount", Reason: "must be below 1000000000000 with at most 12 decimal places"}

	// ErrUserNotFound means the share target has never signed in.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
)

// ValidationError describes one rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match every ValidationError.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
