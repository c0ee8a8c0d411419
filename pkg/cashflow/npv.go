// Package cashflow evaluates investment cash-flow series: net present value,
// internal rate of return and the accept/reject reading of both.
package cashflow

import (
	"fmt"
	"math"

	"github.com/iwvelando/finance-calculators/pkg/validation"
)

// ValidateFlows checks that a series can be discounted.
func ValidateFlows(flows []float64) error {
	if len(flows) == 0 {
		return validation.NewInputError("cashFlows", 0, "must contain at least one flow")
	}
	for i, flow := range flows {
		if err := validation.ValidateFinite(fmt.Sprintf("cashFlows[%d]", i), flow); err != nil {
			return err
		}
	}
	return nil
}

// NPV discounts flows at rate. flows[0] occurs at t=0 and is not discounted.
func NPV(rate float64, flows []float64) (float64, error) {
	if err := validation.ValidateFinite("rate", rate); err != nil {
		return 0, err
	}
	if rate <= -1 {
		return 0, validation.NewInputError("rate", rate, "must be greater than -1")
	}
	if err := ValidateFlows(flows); err != nil {
		return 0, err
	}
	return npv(rate, flows), nil
}

func npv(rate float64, flows []float64) float64 {
	total := 0.0
	discount := 1.0
	for _, flow := range flows {
		total += flow / discount
		discount *= 1 + rate
	}
	return total
}

// npvDerivative returns d NPV / d rate.
func npvDerivative(rate float64, flows []float64) float64 {
	total := 0.0
	for t, flow := range flows {
		if t == 0 {
			continue
		}
		total -= float64(t) * flow / math.Pow(1+rate, float64(t+1))
	}
	return total
}
