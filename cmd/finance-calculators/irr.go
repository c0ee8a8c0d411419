package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	"github.com/iwvelando/finance-calculators/internal/calculator"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/format"
	"github.com/iwvelando/finance-calculators/pkg/output"
	"github.com/iwvelando/finance-calculators/pkg/validation"
)

// irrCmd holds the flags for the 'irr' subcommand.
type irrCmd struct {
	flows        string
	discountRate float64
}

func (*irrCmd) Name() string     { return "irr" }
func (*irrCmd) Synopsis() string { return "compute the NPV and IRR of a cash-flow series" }
func (*irrCmd) Usage() string {
	return `finance-calculators [-output-format pretty|csv|json] irr [-discount-rate R] [-flows F0,F1,...] [F0 F1 ...]

  The first flow is the initial investment at t=0 and must not be positive.
  Flows may be given with -flows or as arguments.
`
}

func (c *irrCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.flows, "flows", "", "comma separated cash flows starting at t=0")
	f.Float64Var(&c.discountRate, "discount-rate", 0, "discount rate in percent")
}

// parseFlows reads numbers separated by commas or whitespace.
func parseFlows(values ...string) ([]float64, error) {
	var flows []float64
	for _, value := range values {
		fields := strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: cash flow %q is not a number", validation.ErrInvalidInput, field)
			}
			flows = append(flows, v)
		}
	}
	return flows, nil
}

func (c *irrCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	given := setFlags(f)
	return runCommand(ctx, "main.irr", func(ctx context.Context, a *app) error {
		defaults, err := a.svc.Defaults()
		if err != nil {
			return err
		}
		req := defaults.CashFlows
		if given["discount-rate"] {
			req.DiscountRate = c.discountRate
		}

		var sources []string
		if given["flows"] {
			sources = append(sources, c.flows)
		}
		sources = append(sources, f.Args()...)
		if len(sources) > 0 {
			if req.CashFlows, err = parseFlows(sources...); err != nil {
				return err
			}
		}

		resp, err := a.svc.EvaluateCashFlows(ctx, req)
		if err != nil {
			return err
		}
		return writeCashFlows(a, resp)
	})
}

func writeCashFlows(a *app, resp *calculator.CashFlowResponse) error {
	pairs := [][2]string{
		{"NPV", format.Currency(resp.NPV)},
		{"IRR", format.Percent(resp.IRR)},
		{"Discount rate", format.Percent(resp.Request.DiscountRate)},
		{"Decision", string(resp.Decision)},
		{"Solver", fmt.Sprintf("%s, %d iterations", resp.Method, resp.Iterations)},
	}
	for _, note := range resp.Notes {
		pairs = append(pairs, [2]string{"Note", note})
	}

	switch a.outputFormat {
	case constants.OutputFormatCSV:
		return output.KeyValuesCSV(a.out, [][2]string{
			{"npv", format.Fixed(resp.NPV)},
			{"irr", strconv.FormatFloat(resp.IRR, 'f', 6, 64)},
			{"discount_rate", strconv.FormatFloat(resp.Request.DiscountRate, 'f', -1, 64)},
			{"decision", string(resp.Decision)},
		})
	case constants.OutputFormatJSON:
		return output.JSON(a.out, resp)
	default:
		return output.KeyValues(a.out, "Cash flow evaluation", pairs)
	}
}
