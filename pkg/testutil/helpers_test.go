package testutil

import (
	"math"
	"testing"
)

// recorder captures failures without failing the parent test.
type recorder struct {
	testing.TB
	failed bool
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(string, ...any) { r.failed = true }

func TestAssertClose(t *testing.T) {
	tests := []struct {
		name       string
		got        float64
		expected   float64
		tolerance  float64
		expectFail bool
	}{
		{"Exact match", 943.56, 943.56, 0, false},
		{"Within tolerance", 943.561, 943.56, 0.01, false},
		{"Outside tolerance", 943.58, 943.56, 0.01, true},
		{"NaN never matches", math.NaN(), 0, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{TB: t}
			AssertClose(r, "value", tt.got, tt.expected, tt.tolerance)
			if r.failed != tt.expectFail {
				t.Errorf("AssertClose(%v, %v, %v) failed = %v, expected %v",
					tt.got, tt.expected, tt.tolerance, r.failed, tt.expectFail)
			}
		})
	}
}

func TestAssertCents(t *testing.T) {
	r := &recorder{TB: t}
	AssertCents(r, "payment", 943.5617, 943.56)
	if r.failed {
		t.Error("AssertCents should accept a sub-cent difference")
	}
	AssertCents(r, "payment", 943.60, 943.56)
	if !r.failed {
		t.Error("AssertCents should reject a four-cent difference")
	}
}

func TestSum(t *testing.T) {
	if got := Sum([]float64{3000, 4000, 5000, 6000}); got != 18000 {
		t.Errorf("Sum() = %v, expected 18000", got)
	}
	if got := Sum(nil); got != 0 {
		t.Errorf("Sum(nil) = %v, expected 0", got)
	}
}
