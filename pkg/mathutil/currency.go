// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/finance-calculators/pkg/constants"
)

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsFinite reports whether val is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}

// PercentToDecimal converts a percentage (5 for 5%) into a decimal fraction.
func PercentToDecimal(percentage float64) float64 {
	return percentage / constants.PercentageMultiplier
}

// DecimalToPercent converts a decimal fraction into a percentage.
func DecimalToPercent(fraction float64) float64 {
	return fraction * constants.PercentageMultiplier
}
