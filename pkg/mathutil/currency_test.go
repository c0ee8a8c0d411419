package mathutil

import (
	"math"
	"testing"
)

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		npv      float64
		expected bool
	}{
		{"Break-even project", 0, true},
		{"Residual below a cent", 0.004, true},
		{"Negative residual below a cent", -0.009, true},
		{"One cent", 0.01, true},
		{"Minus one cent", -0.01, true},
		{"Two cents", 0.02, false},
		{"Reference project NPV", 3887.71, false},
		{"Losing project NPV", -250.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsZero(tt.npv); got != tt.expected {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.npv, got, tt.expected)
			}
		})
	}
}

func TestCalculatePercentage(t *testing.T) {
	tests := []struct {
		name        string
		interest    float64
		contributed float64
		expected    float64
	}{
		{"Reference growth ROI", 10096.61, 10000, 100.9661},
		{"Interest equal to contributions", 5000, 5000, 100},
		{"No interest earned", 0, 12000, 0},
		{"Nothing contributed", 250, 0, 0},
		{"Negative interest", -50, 1000, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculatePercentage(tt.interest, tt.contributed); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("CalculatePercentage(%v, %v) = %v, expected %v",
					tt.interest, tt.contributed, got, tt.expected)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Ordinary value", 943.56, true},
		{"Zero", 0, true},
		{"NaN", math.NaN(), false},
		{"Positive infinity", math.Inf(1), false},
		{"Negative infinity", math.Inf(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsFinite(tt.input); result != tt.expected {
				t.Errorf("IsFinite(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestPercentConversions(t *testing.T) {
	tests := []struct {
		name       string
		percentage float64
		fraction   float64
	}{
		{"Five percent", 5.0, 0.05},
		{"Zero", 0.0, 0.0},
		{"One hundred percent", 100.0, 1.0},
		{"Negative percentage", -2.5, -0.025},
		{"Fractional percentage", 0.125, 0.00125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := PercentToDecimal(tt.percentage); math.Abs(result-tt.fraction) > 1e-12 {
				t.Errorf("PercentToDecimal(%v) = %v, expected %v", tt.percentage, result, tt.fraction)
			}
			if result := DecimalToPercent(tt.fraction); math.Abs(result-tt.percentage) > 1e-12 {
				t.Errorf("DecimalToPercent(%v) = %v, expected %v", tt.fraction, result, tt.percentage)
			}
		})
	}
}
