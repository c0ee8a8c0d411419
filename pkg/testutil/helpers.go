// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"
	"testing"
)

// AssertClose fails the test when got and expected differ by more than tolerance.
func AssertClose(t testing.TB, label string, got, expected, tolerance float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-expected) > tolerance {
		t.Errorf("%s = %.10f, expected %.10f (tolerance %g)", label, got, expected, tolerance)
	}
}

// AssertCents fails the test when got and expected differ by more than one cent.
func AssertCents(t testing.TB, label string, got, expected float64) {
	t.Helper()
	AssertClose(t, label, got, expected, 0.01)
}

// Sum adds values.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
