package rates

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/finance-calculators/pkg/frequency"
	"github.com/iwvelando/finance-calculators/pkg/validation"
)

func TestNominalToEffectiveAnnual(t *testing.T) {
	tests := []struct {
		name     string
		nominal  float64
		freq     frequency.Frequency
		expected float64
	}{
		{"Annual is identity", 0.05, frequency.Annual, 0.05},
		{"Semiannual", 0.10, frequency.Semiannual, 0.1025},
		{"Monthly 5%", 0.05, frequency.Monthly, 0.0511618979},
		{"Quarterly 8%", 0.08, frequency.Quarterly, 0.0824321600},
		{"Daily 5%", 0.05, frequency.Daily, 0.0512674965},
		{"Zero rate", 0, frequency.Monthly, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NominalToEffectiveAnnual(tt.nominal, tt.freq)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("NominalToEffectiveAnnual(%v, %v) = %.10f, expected %.10f", tt.nominal, tt.freq, got, tt.expected)
			}
		})
	}
}

func TestEffectiveAnnualToPeriodic(t *testing.T) {
	got, err := EffectiveAnnualToPeriodic(0.1025, frequency.Semiannual)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(got-0.05) > 1e-12 {
		t.Errorf("EffectiveAnnualToPeriodic(0.1025, semiannual) = %v, expected 0.05", got)
	}

	effective, err := PeriodicToEffectiveAnnual(0.01, frequency.Monthly)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(effective-0.1268250301) > 1e-9 {
		t.Errorf("PeriodicToEffectiveAnnual(0.01, monthly) = %.10f, expected 0.1268250301", effective)
	}
}

func TestRoundTrips(t *testing.T) {
	samples := []float64{0, 0.001, 0.05, 0.25, 1, 2.5, 5}
	for _, f := range frequency.ConversionFrequencies {
		for _, x := range samples {
			effective, err := NominalToEffectiveAnnual(x, f)
			if err != nil {
				t.Fatalf("NominalToEffectiveAnnual(%v, %v) error: %v", x, f, err)
			}
			nominal, err := EffectiveAnnualToNominal(effective, f)
			if err != nil {
				t.Fatalf("EffectiveAnnualToNominal(%v, %v) error: %v", effective, f, err)
			}
			if math.Abs(nominal-x) > 1e-9*math.Max(1, x) {
				t.Errorf("nominal round trip for %v at %v returned %v", x, f, nominal)
			}

			periodic, err := EffectiveAnnualToPeriodic(x, f)
			if err != nil {
				t.Fatalf("EffectiveAnnualToPeriodic(%v, %v) error: %v", x, f, err)
			}
			back, err := PeriodicToEffectiveAnnual(periodic, f)
			if err != nil {
				t.Fatalf("PeriodicToEffectiveAnnual(%v, %v) error: %v", periodic, f, err)
			}
			if math.Abs(back-x) > 1e-9*math.Max(1, x) {
				t.Errorf("periodic round trip for %v at %v returned %v", x, f, back)
			}
		}
	}
}

func TestConvert(t *testing.T) {
	got, err := Convert(NominalToEffective, 0.10, frequency.Semiannual)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(got-0.1025) > 1e-12 {
		t.Errorf("Convert() = %v, expected 0.1025", got)
	}

	tests := []struct {
		name       string
		conversion Conversion
		rate       float64
		freq       frequency.Frequency
	}{
		{"Zero periods per year", NominalToEffective, 0.05, frequency.None},
		{"Frequency outside table", EffectiveToNominal, 0.05, frequency.Frequency(5)},
		{"Unknown conversion", Conversion("continuous"), 0.05, frequency.Monthly},
		{"NaN rate", PeriodicToEffective, math.NaN(), frequency.Monthly},
		{"Effective below -100%", EffectiveToPeriodic, -2, frequency.Monthly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Convert(tt.conversion, tt.rate, tt.freq); !errors.Is(err, validation.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestParseConversion(t *testing.T) {
	c, err := ParseConversion(" Nominal-To-Effective ")
	if err != nil || c != NominalToEffective {
		t.Errorf("ParseConversion() = %q, %v", c, err)
	}
	if _, err := ParseConversion("simple"); !errors.Is(err, validation.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
