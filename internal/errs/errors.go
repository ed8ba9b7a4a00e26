package errs

import (
	"errors"
	"fmt"
)

// Common sentinel errors for cross-layer signaling.
var (
	ErrNotFound = errors.New("not_found")
	// ErrAlreadyExists is returned when an account with the same tax id is already registered.
	ErrAlreadyExists = errors.New("already_exists")
	// ErrInsufficientFunds rejects a debit that would take the balance below zero.
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrInvalid           = errors.New("invalid")
)

// ValidationError is an ErrInvalid whose text is safe to show to clients as is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Invalidf builds a ValidationError; errors.Is(err, ErrInvalid) holds for the result.
func Invalidf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
