// Package frequency defines the periods-per-year enumeration shared by the
// loan, growth and rate calculators.
package frequency

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/validation"
)

// Frequency is a number of periods per year. The zero value means no periods.
type Frequency int

const (
	None        Frequency = 0
	Annual      Frequency = 1
	Semiannual  Frequency = 2
	FourMonthly Frequency = 3
	Quarterly   Frequency = 4
	Bimonthly   Frequency = 6
	Monthly     Frequency = 12
	Semimonthly Frequency = 24
	Daily       Frequency = 365
)

var names = map[Frequency]string{
	None:        "none",
	Annual:      "annual",
	Semiannual:  "semiannual",
	FourMonthly: "four-monthly",
	Quarterly:   "quarterly",
	Bimonthly:   "bimonthly",
	Monthly:     "monthly",
	Semimonthly: "semimonthly",
	Daily:       "daily",
}

var aliases = map[string]Frequency{
	"yearly":       Annual,
	"semi-annual":  Semiannual,
	"fourmonthly":  FourMonthly,
	"bi-monthly":   Bimonthly,
	"semi-monthly": Semimonthly,
	// Spanish labels used by the spreadsheet exports.
	"anual":         Annual,
	"semestral":     Semiannual,
	"cuatrimestral": FourMonthly,
	"trimestral":    Quarterly,
	"bimestral":     Bimonthly,
	"mensual":       Monthly,
	"quincenal":     Semimonthly,
	"diaria":        Daily,
	"diario":        Daily,
	"ninguna":       None,
}

// Payment, compounding, contribution and conversion tables.
var (
	PaymentFrequencies      = Set{Monthly, Bimonthly, Quarterly, Semiannual, Annual}
	CompoundingFrequencies  = Set{Annual, Semiannual, Quarterly, Monthly, Daily}
	ContributionFrequencies = Set{Annual, Semiannual, Quarterly, Monthly, None}
	ConversionFrequencies   = Set{Annual, Semiannual, FourMonthly, Quarterly, Bimonthly, Monthly, Semimonthly, Daily}
)

// PeriodsPerYear returns the number of periods in a year.
func (f Frequency) PeriodsPerYear() int {
	return int(f)
}

// MonthsPerPeriod returns the length of one period in months.
// It returns 0 for None.
func (f Frequency) MonthsPerPeriod() float64 {
	if f <= 0 {
		return 0
	}
	return float64(constants.MonthsPerYear) / float64(f)
}

// Known reports whether f is one of the enumerated frequencies.
func (f Frequency) Known() bool {
	_, ok := names[f]
	return ok
}

func (f Frequency) String() string {
	if name, ok := names[f]; ok {
		return name
	}
	return "Frequency(" + strconv.Itoa(int(f)) + ")"
}

// MarshalText encodes the frequency by name.
func (f Frequency) MarshalText() ([]byte, error) {
	if !f.Known() {
		return nil, fmt.Errorf("%w: unknown frequency %d", validation.ErrInvalidInput, int(f))
	}
	return []byte(names[f]), nil
}

// UnmarshalText accepts a name, an alias or a periods-per-year number.
func (f *Frequency) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Parse resolves a frequency name, alias or periods-per-year number.
// Unknown values are rejected with validation.ErrInvalidInput.
func Parse(value string) (Frequency, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	for f, name := range names {
		if name == key {
			return f, nil
		}
	}
	if f, ok := aliases[key]; ok {
		return f, nil
	}
	if n, err := strconv.Atoi(key); err == nil {
		if f := Frequency(n); f.Known() {
			return f, nil
		}
	}
	return None, fmt.Errorf("%w: unknown frequency %q", validation.ErrInvalidInput, value)
}

// Set is an allowed subset of frequencies for one input.
type Set []Frequency

// Contains reports whether f belongs to the set.
func (s Set) Contains(f Frequency) bool {
	for _, candidate := range s {
		if candidate == f {
			return true
		}
	}
	return false
}

// Names lists the set by name, most frequent first.
func (s Set) Names() []string {
	sorted := append(Set(nil), s...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })
	out := make([]string, len(sorted))
	for i, f := range sorted {
		out[i] = f.String()
	}
	return out
}

// Check returns an InputError for field when f is not in the set.
func (s Set) Check(field string, f Frequency) error {
	if s.Contains(f) {
		return nil
	}
	return validation.NewInputError(field, float64(f),
		fmt.Sprintf("must be one of %s", strings.Join(s.Names(), ", ")))
}

// Parse parses value and checks it against the set.
func (s Set) Parse(field, value string) (Frequency, error) {
	f, err := Parse(value)
	if err != nil {
		return None, fmt.Errorf("%s: %w", field, err)
	}
	if err := s.Check(field, f); err != nil {
		return None, err
	}
	return f, nil
}
