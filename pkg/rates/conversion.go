// Package rates converts between nominal, effective annual and periodic
// interest rates. All rates are decimal fractions (0.05 for 5%).
package rates

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/finance-calculators/pkg/frequency"
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
	"github.com/iwvelando/finance-calculators/pkg/validation"
)

// Conversion names one of the supported rate transformations.
type Conversion string

const (
	NominalToEffective  Conversion = "nominal-to-effective"
	EffectiveToNominal  Conversion = "effective-to-nominal"
	PeriodicToEffective Conversion = "periodic-to-effective"
	EffectiveToPeriodic Conversion = "effective-to-periodic"
)

// Conversions lists every supported conversion.
var Conversions = []Conversion{NominalToEffective, EffectiveToNominal, PeriodicToEffective, EffectiveToPeriodic}

// ParseConversion resolves a conversion name.
func ParseConversion(value string) (Conversion, error) {
	key := Conversion(strings.ToLower(strings.TrimSpace(value)))
	for _, c := range Conversions {
		if c == key {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown conversion %q", validation.ErrInvalidInput, value)
}

// UnmarshalText rejects unknown conversion names.
func (c *Conversion) UnmarshalText(text []byte) error {
	parsed, err := ParseConversion(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func periods(f frequency.Frequency) (float64, error) {
	if f.PeriodsPerYear() <= 0 {
		return 0, validation.NewInputError("frequency", float64(f), "must have at least one period per year")
	}
	if !frequency.ConversionFrequencies.Contains(f) {
		return 0, frequency.ConversionFrequencies.Check("frequency", f)
	}
	return float64(f.PeriodsPerYear()), nil
}

func checkResult(field string, input, result float64) (float64, error) {
	if !mathutil.IsFinite(result) {
		return 0, validation.NewInputError(field, input, "has no real-valued conversion")
	}
	return result, nil
}

// NominalToEffectiveAnnual returns (1 + nominal/m)^m - 1.
func NominalToEffectiveAnnual(nominal float64, f frequency.Frequency) (float64, error) {
	m, err := periods(f)
	if err != nil {
		return 0, err
	}
	return checkResult("rate", nominal, math.Pow(1+nominal/m, m)-1)
}

// EffectiveAnnualToNominal returns m * ((1 + effective)^(1/m) - 1).
func EffectiveAnnualToNominal(effective float64, f frequency.Frequency) (float64, error) {
	m, err := periods(f)
	if err != nil {
		return 0, err
	}
	return checkResult("rate", effective, m*(math.Pow(1+effective, 1/m)-1))
}

// PeriodicToEffectiveAnnual returns (1 + periodic)^k - 1.
func PeriodicToEffectiveAnnual(periodic float64, f frequency.Frequency) (float64, error) {
	k, err := periods(f)
	if err != nil {
		return 0, err
	}
	return checkResult("rate", periodic, math.Pow(1+periodic, k)-1)
}

// EffectiveAnnualToPeriodic returns (1 + effective)^(1/k) - 1.
func EffectiveAnnualToPeriodic(effective float64, f frequency.Frequency) (float64, error) {
	k, err := periods(f)
	if err != nil {
		return 0, err
	}
	return checkResult("rate", effective, math.Pow(1+effective, 1/k)-1)
}

// Convert dispatches to the conversion named by c.
func Convert(c Conversion, rate float64, f frequency.Frequency) (float64, error) {
	if err := validation.ValidateFinite("rate", rate); err != nil {
		return 0, err
	}
	switch c {
	case NominalToEffective:
		return NominalToEffectiveAnnual(rate, f)
	case EffectiveToNominal:
		return EffectiveAnnualToNominal(rate, f)
	case PeriodicToEffective:
		return PeriodicToEffectiveAnnual(rate, f)
	case EffectiveToPeriodic:
		return EffectiveAnnualToPeriodic(rate, f)
	}
	return 0, fmt.Errorf("%w: unknown conversion %q", validation.ErrInvalidInput, string(c))
}
