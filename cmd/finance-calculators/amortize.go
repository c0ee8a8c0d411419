package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/iwvelando/finance-calculators/internal/calculator"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/frequency"
	"github.com/iwvelando/finance-calculators/pkg/output"
)

// amortizeCmd holds the flags for the 'amortize' subcommand.
type amortizeCmd struct {
	principal float64
	rate      float64
	term      int
	frequency string
}

func (*amortizeCmd) Name() string     { return "amortize" }
func (*amortizeCmd) Synopsis() string { return "print a fixed-payment loan amortization schedule" }
func (*amortizeCmd) Usage() string {
	return `finance-calculators [-output-format pretty|csv|json] amortize [-principal P] [-rate R] [-term MONTHS] [-frequency F]

  Builds a French-system schedule. Flags that are not given take the
  configured defaults.
`
}

func (c *amortizeCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.principal, "principal", 0, "amount borrowed")
	f.Float64Var(&c.rate, "rate", 0, "nominal annual rate in percent")
	f.IntVar(&c.term, "term", 0, "term in months")
	f.StringVar(&c.frequency, "frequency", "", "payment frequency: monthly, bimonthly, quarterly, semiannual, annual")
}

func (c *amortizeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	given := setFlags(f)
	return runCommand(ctx, "main.amortize", func(ctx context.Context, a *app) error {
		defaults, err := a.svc.Defaults()
		if err != nil {
			return err
		}
		req := defaults.Amortization
		if given["principal"] {
			req.Principal = c.principal
		}
		if given["rate"] {
			req.AnnualRate = c.rate
		}
		if given["term"] {
			req.TermMonths = c.term
		}
		if given["frequency"] {
			if req.Frequency, err = frequency.PaymentFrequencies.Parse("frequency", c.frequency); err != nil {
				return err
			}
		}

		resp, err := a.svc.Amortize(ctx, req)
		if err != nil {
			return err
		}
		return writeAmortization(a, resp)
	})
}

func writeAmortization(a *app, resp *calculator.AmortizationResponse) error {
	switch a.outputFormat {
	case constants.OutputFormatCSV:
		return output.AmortizationCSV(a.out, resp.Schedule)
	case constants.OutputFormatJSON:
		return output.JSON(a.out, resp)
	default:
		return output.PrettyAmortization(a.out, output.AmortizationSummary{
			Payment:       resp.Payment,
			TotalPaid:     resp.TotalPaid,
			TotalInterest: resp.TotalInterest,
		}, resp.Schedule)
	}
}
