package validation

import (
	"fmt"
	"math"
)

// ValidateFinite rejects NaN and infinities.
func ValidateFinite(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewInputError(field, value, "must be a finite number")
	}
	return nil
}

// ValidateRange checks min <= value <= max.
func ValidateRange(field string, value, min, max float64) error {
	if err := ValidateFinite(field, value); err != nil {
		return err
	}
	if value < min || value > max {
		return NewInputError(field, value, fmt.Sprintf("must be between %g and %g", min, max))
	}
	return nil
}

// ValidatePositive checks 0 < value <= max.
func ValidatePositive(field string, value, max float64) error {
	if err := ValidateFinite(field, value); err != nil {
		return err
	}
	if value <= 0 {
		return NewInputError(field, value, "must be greater than zero")
	}
	if value > max {
		return NewInputError(field, value, fmt.Sprintf("must not exceed %g", max))
	}
	return nil
}

// ValidateNonNegative checks 0 <= value <= max.
func ValidateNonNegative(field string, value, max float64) error {
	return ValidateRange(field, value, 0, max)
}

// ValidateIntRange checks min <= value <= max for whole-number inputs such as terms.
func ValidateIntRange(field string, value, min, max int) error {
	if value < min || value > max {
		return NewInputError(field, float64(value), fmt.Sprintf("must be between %d and %d", min, max))
	}
	return nil
}
