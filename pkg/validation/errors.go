package validation

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned, possibly wrapped, for any out-of-range or
// non-finite calculator input.
var ErrInvalidInput = errors.New("invalid input")

// InputError describes which field failed validation and why.
type InputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s %s (got %g)", ErrInvalidInput, e.Field, e.Reason, e.Value)
}

// Unwrap allows errors.Is(err, ErrInvalidInput).
func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// NewInputError builds an InputError for field.
func NewInputError(field string, value float64, reason string) *InputError {
	return &InputError{Field: field, Value: value, Reason: reason}
}
