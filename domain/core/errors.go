package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Caller contract violations: out-of-domain parameters, mismatched
	// lengths, empty samples.
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrEmptySample      = fmt.Errorf("%w: empty sample", ErrInvalidArgument)
	ErrLengthMismatch   = fmt.Errorf("%w: length mismatch", ErrInvalidArgument)
	ErrImpossibleCount  = fmt.Errorf("%w: observation in a category with no expected mass", ErrInvalidArgument)
	ErrInsufficientData = fmt.Errorf("%w: insufficient data for analysis", ErrInvalidArgument)

	// Post-condition failures: every input was valid on its own but the
	// combination cannot be used.
	ErrInvalidState   = errors.New("invalid state")
	ErrTooFewCategory = fmt.Errorf("%w: fewer than 2 categories after regrouping", ErrInvalidState)

	// Lookup errors
	ErrNotFound       = errors.New("resource not found")
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)
)

// Error constructors with context
func NewArgumentError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidArgument, field, reason)
}

func NewArgumentErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, resource, id)
}

// Error checking helpers
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
