// Package growth projects compound-interest balances with periodic contributions.
package growth

import (
	"fmt"
	"math"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/frequency"
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
	"github.com/iwvelando/finance-calculators/pkg/validation"
	"go.uber.org/zap"
)

// Parameters holds the inputs of a growth projection.
type Parameters struct {
	InitialInvestment  float64
	AnnualContribution float64
	AnnualRatePercent  float64
	TermYears          int
	Compounding        frequency.Frequency
	Contribution       frequency.Frequency
}

// YearRecord summarizes one year of the projection.
type YearRecord struct {
	Year           int     `json:"year"`
	OpeningBalance float64 `json:"openingBalance"`
	Contributions  float64 `json:"contributions"`
	Interest       float64 `json:"interest"`
	ClosingBalance float64 `json:"closingBalance"`
}

// Projection is the result of a growth run.
type Projection struct {
	FinalBalance     float64
	TotalContributed float64
	TotalInterest    float64
	Records          []YearRecord
}

// ValidateParameters checks the growth inputs against their documented domain.
func ValidateParameters(params Parameters) error {
	if err := validation.ValidateNonNegative("initialInvestment", params.InitialInvestment, math.MaxFloat64); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative("annualContribution", params.AnnualContribution, math.MaxFloat64); err != nil {
		return err
	}
	if err := validation.ValidateRange("annualRate", params.AnnualRatePercent, 0, constants.DefaultMaxAnnualRate); err != nil {
		return err
	}
	if err := validation.ValidateIntRange("termYears", params.TermYears, 1, math.MaxInt32); err != nil {
		return err
	}
	if err := frequency.CompoundingFrequencies.Check("compoundingFrequency", params.Compounding); err != nil {
		return err
	}
	return frequency.ContributionFrequencies.Check("contributionFrequency", params.Contribution)
}

// contributionDue reports whether sub-period k (1-based) of a year with m
// compounding periods receives a contribution when c contributions are made
// per year. The quotient m/c is real, so sub-periods that are not an exact
// multiple of it are skipped when c does not divide m.
func contributionDue(k int, m, c frequency.Frequency) bool {
	if c == frequency.None {
		return false
	}
	return math.Mod(float64(k), float64(m)/float64(c)) == 0
}

// Processor handles compound growth computations.
type Processor struct {
	logger *zap.Logger
}

// NewProcessor creates a processor for growth calculations.
func NewProcessor(logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{logger: logger}
}

// Project runs the year-by-year projection. On error no partial records are
// returned.
func (p *Processor) Project(params Parameters) (*Projection, error) {
	if err := ValidateParameters(params); err != nil {
		return nil, err
	}

	m := params.Compounding
	periodicRate := mathutil.PercentToDecimal(params.AnnualRatePercent) / float64(m.PeriodsPerYear())

	perContribution := 0.0
	if params.Contribution != frequency.None {
		perContribution = params.AnnualContribution / float64(params.Contribution.PeriodsPerYear())
	}

	projection := &Projection{
		Records: make([]YearRecord, 0, params.TermYears),
	}

	balance := params.InitialInvestment
	totalContributions := 0.0
	for year := 1; year <= params.TermYears; year++ {
		record := YearRecord{Year: year, OpeningBalance: balance}

		for k := 1; k <= m.PeriodsPerYear(); k++ {
			interest := balance * periodicRate
			balance += interest
			record.Interest += interest

			if perContribution > 0 && contributionDue(k, m, params.Contribution) {
				balance += perContribution
				record.Contributions += perContribution
			}
		}

		if year == 1 && perContribution > 0 && record.Contributions == 0 {
			p.logger.Debug(fmt.Sprintf("contribution frequency %s does not align with %s compounding, no contributions applied",
				params.Contribution, m),
				zap.String("op", "growth.Project"),
			)
		}

		record.ClosingBalance = balance
		totalContributions += record.Contributions
		projection.Records = append(projection.Records, record)
	}

	projection.FinalBalance = balance
	projection.TotalContributed = params.InitialInvestment + totalContributions
	projection.TotalInterest = balance - projection.TotalContributed

	p.logger.Debug("projected compound growth",
		zap.String("op", "growth.Project"),
		zap.Int("years", params.TermYears),
		zap.Float64("finalBalance", projection.FinalBalance),
	)

	return projection, nil
}

// ReturnOnInvestment is total interest as a percentage of everything paid in.
func (p *Projection) ReturnOnInvestment() float64 {
	return mathutil.CalculatePercentage(p.TotalInterest, p.TotalContributed)
}

// BuildCompoundGrowthSchedule returns the final balance, total contributed,
// total interest and the yearly records of a projection.
func BuildCompoundGrowthSchedule(initial, annualContribution, annualRatePercent float64, termYears int,
	compounding, contribution frequency.Frequency) (float64, float64, float64, []YearRecord, error) {
	projection, err := NewProcessor(nil).Project(Parameters{
		InitialInvestment:  initial,
		AnnualContribution: annualContribution,
		AnnualRatePercent:  annualRatePercent,
		TermYears:          termYears,
		Compounding:        compounding,
		Contribution:       contribution,
	})
	if err != nil {
		return 0, 0, 0, nil, err
	}
	return projection.FinalBalance, projection.TotalContributed, projection.TotalInterest, projection.Records, nil
}
