// Package loans builds fixed-payment (French system) amortization schedules.
package loans

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/frequency"
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
	"github.com/iwvelando/finance-calculators/pkg/validation"
	"go.uber.org/zap"
)

// ErrInvalidSchedule is returned when the inputs pass validation but still
// cannot produce a schedule, e.g. a vanishing annuity denominator.
var ErrInvalidSchedule = errors.New("invalid amortization schedule")

// Parameters holds the inputs of a loan.
type Parameters struct {
	Principal         float64
	AnnualRatePercent float64
	TermMonths        int
	Frequency         frequency.Frequency
}

// Period holds the values for a given payment period.
type Period struct {
	Period         int     `json:"period"`
	OpeningBalance float64 `json:"openingBalance"`
	Payment        float64 `json:"payment"`
	Interest       float64 `json:"interest"`
	Principal      float64 `json:"principal"`
	ClosingBalance float64 `json:"closingBalance"`
}

// Schedule is a complete amortization table plus its totals.
type Schedule struct {
	// Payment is the fixed installment. The last period may differ by the
	// rounding residual.
	Payment       float64
	PeriodicRate  float64
	Periods       []Period
	TotalPaid     float64
	TotalInterest float64
}

// PeriodCount returns ceil(termMonths / monthsPerPeriod).
func PeriodCount(termMonths int, f frequency.Frequency) int {
	monthsPerPeriod := f.MonthsPerPeriod()
	if monthsPerPeriod <= 0 {
		return 0
	}
	return int(math.Ceil(float64(termMonths) / monthsPerPeriod))
}

// PeriodicRate converts an annual nominal percentage into the rate per period.
func PeriodicRate(annualRatePercent float64, f frequency.Frequency) float64 {
	return mathutil.PercentToDecimal(annualRatePercent) / float64(f.PeriodsPerYear())
}

// CalculatePayment calculates the fixed payment using the standard annuity formula.
func CalculatePayment(principal, periodicRate float64, periods int) (float64, error) {
	if periods <= 0 {
		return 0, fmt.Errorf("%w: %d periods", ErrInvalidSchedule, periods)
	}
	if periodicRate == 0 {
		// For zero interest, simply divide the principal by the number of periods
		return principal / float64(periods), nil
	}

	denominator := 1 - math.Pow(1+periodicRate, -float64(periods))
	if denominator == 0 {
		return 0, fmt.Errorf("%w: annuity denominator is zero for rate %g over %d periods",
			ErrInvalidSchedule, periodicRate, periods)
	}
	return principal * periodicRate / denominator, nil
}

// ValidateParameters checks the loan inputs against their documented domain.
func ValidateParameters(params Parameters) error {
	if err := validation.ValidatePositive("principal", params.Principal, math.MaxFloat64); err != nil {
		return err
	}
	if err := validation.ValidateRange("annualRate", params.AnnualRatePercent, 0, constants.DefaultMaxAnnualRate); err != nil {
		return err
	}
	if err := validation.ValidateIntRange("termMonths", params.TermMonths, 1, math.MaxInt32); err != nil {
		return err
	}
	return frequency.PaymentFrequencies.Check("frequency", params.Frequency)
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule creates a complete amortization schedule for a loan.
// On error no partial schedule is returned.
func (g *AmortizationScheduleGenerator) GenerateSchedule(params Parameters) (*Schedule, error) {
	if err := ValidateParameters(params); err != nil {
		return nil, err
	}

	n := PeriodCount(params.TermMonths, params.Frequency)
	if n <= 0 {
		return nil, fmt.Errorf("%w: term of %d months yields no periods", ErrInvalidSchedule, params.TermMonths)
	}

	rate := PeriodicRate(params.AnnualRatePercent, params.Frequency)
	payment, err := CalculatePayment(params.Principal, rate, n)
	if err != nil {
		return nil, err
	}

	schedule := &Schedule{
		Payment:      payment,
		PeriodicRate: rate,
		Periods:      make([]Period, 0, n),
	}

	balance := params.Principal
	for t := 1; t <= n; t++ {
		current := Period{
			Period:         t,
			OpeningBalance: balance,
			Payment:        payment,
			Interest:       balance * rate,
		}
		current.Principal = payment - current.Interest

		if t == n {
			// Absorb the accumulated residual so the loan closes at exactly zero.
			if residual := balance - current.Principal; residual != 0 {
				g.logger.Debug(fmt.Sprintf("adjusting final payment by %.10f", residual),
					zap.String("op", "loans.GenerateSchedule"),
					zap.Int("period", t),
				)
			}
			current.Principal = balance
			current.Payment = current.Principal + current.Interest
			current.ClosingBalance = 0
		} else {
			current.ClosingBalance = balance - current.Principal
		}

		schedule.Periods = append(schedule.Periods, current)
		schedule.TotalPaid += current.Payment
		schedule.TotalInterest += current.Interest
		balance = current.ClosingBalance
	}

	g.logger.Debug("generated amortization schedule",
		zap.String("op", "loans.GenerateSchedule"),
		zap.Int("periods", n),
		zap.Float64("payment", payment),
	)

	return schedule, nil
}

// BuildAmortizationSchedule returns the fixed payment and every period of a
// French-system loan.
func BuildAmortizationSchedule(principal, annualRatePercent float64, termMonths int, f frequency.Frequency) (float64, []Period, error) {
	schedule, err := NewAmortizationScheduleGenerator(nil).GenerateSchedule(Parameters{
		Principal:         principal,
		AnnualRatePercent: annualRatePercent,
		TermMonths:        termMonths,
		Frequency:         f,
	})
	if err != nil {
		return 0, nil, err
	}
	return schedule.Payment, schedule.Periods, nil
}
