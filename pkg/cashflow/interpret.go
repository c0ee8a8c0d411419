package cashflow

import (
	"fmt"

	"github.com/iwvelando/finance-calculators/pkg/mathutil"
	"github.com/iwvelando/finance-calculators/pkg/validation"
	"go.uber.org/zap"
)

// Decision is the capital-budgeting reading of an NPV.
type Decision string

const (
	Accept      Decision = "accept"
	Reject      Decision = "reject"
	Indifferent Decision = "indifferent"
)

// Evaluation is the combined NPV and IRR reading of a project.
type Evaluation struct {
	NPV                  float64
	IRR                  Result
	DiscountRate         float64
	Decision             Decision
	IRRAboveDiscountRate bool
	Notes                []string
}

// Decide maps an NPV onto a decision. Values within a cent of zero are
// indifferent.
func Decide(npv float64) Decision {
	switch {
	case mathutil.IsZero(npv):
		return Indifferent
	case npv > 0:
		return Accept
	default:
		return Reject
	}
}

// ValidateInitialInvestment requires flows[0] to be an outlay (zero or negative).
func ValidateInitialInvestment(flows []float64) error {
	if len(flows) > 0 && flows[0] > 0 {
		return validation.NewInputError("cashFlows[0]", flows[0], "initial investment must be zero or negative")
	}
	return nil
}

// Evaluate computes the NPV at discountRate and the IRR of flows, and reads
// them against each other. Rates are decimal fractions.
func (s *Solver) Evaluate(flows []float64, discountRate float64) (*Evaluation, error) {
	if err := ValidateInitialInvestment(flows); err != nil {
		return nil, err
	}
	irr, err := s.IRR(flows)
	if err != nil {
		return nil, err
	}
	value, err := NPV(discountRate, flows)
	if err != nil {
		return nil, err
	}

	eval := &Evaluation{
		NPV:                  value,
		IRR:                  irr,
		DiscountRate:         discountRate,
		Decision:             Decide(value),
		IRRAboveDiscountRate: irr.Rate > discountRate,
	}

	switch eval.Decision {
	case Accept:
		eval.Notes = append(eval.Notes, fmt.Sprintf(
			"NPV of %.2f is positive: the project earns more than the discount rate and should be accepted", value))
	case Reject:
		eval.Notes = append(eval.Notes, fmt.Sprintf(
			"NPV of %.2f is negative: the project is not profitable at the discount rate and should be rejected", value))
	default:
		eval.Notes = append(eval.Notes,
			"NPV is zero: the project only covers the discount rate")
	}

	irrPercent := mathutil.DecimalToPercent(irr.Rate)
	discountPercent := mathutil.DecimalToPercent(discountRate)
	if eval.IRRAboveDiscountRate {
		eval.Notes = append(eval.Notes, fmt.Sprintf(
			"IRR of %.2f%% exceeds the discount rate of %.2f%%", irrPercent, discountPercent))
	} else {
		eval.Notes = append(eval.Notes, fmt.Sprintf(
			"IRR of %.2f%% does not exceed the discount rate of %.2f%%, the project barely covers its opportunity cost",
			irrPercent, discountPercent))
	}

	s.logger.Debug(fmt.Sprintf("evaluated %d cash flows", len(flows)),
		zap.String("op", "cashflow.Evaluate"),
		zap.String("decision", string(eval.Decision)),
		zap.Int("iterations", irr.Iterations),
	)

	return eval, nil
}
