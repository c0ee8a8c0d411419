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

// growthCmd holds the flags for the 'growth' subcommand.
type growthCmd struct {
	initial               float64
	contribution          float64
	rate                  float64
	years                 int
	compounding           string
	contributionFrequency string
}

func (*growthCmd) Name() string     { return "growth" }
func (*growthCmd) Synopsis() string { return "project compound growth with periodic contributions" }
func (*growthCmd) Usage() string {
	return `finance-calculators [-output-format pretty|csv|json] growth [-initial P] [-contribution C] [-rate R] [-years N]
    [-compounding F] [-contribution-frequency F]

  Prints one row per year. Flags that are not given take the configured
  defaults. The contribution is an annual amount split evenly across the
  contribution frequency.
`
}

func (c *growthCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.initial, "initial", 0, "initial investment")
	f.Float64Var(&c.contribution, "contribution", 0, "annual contribution")
	f.Float64Var(&c.rate, "rate", 0, "nominal annual rate in percent")
	f.IntVar(&c.years, "years", 0, "term in years")
	f.StringVar(&c.compounding, "compounding", "", "compounding frequency: daily, monthly, quarterly, semiannual, annual")
	f.StringVar(&c.contributionFrequency, "contribution-frequency", "", "contribution frequency: monthly, quarterly, semiannual, annual, none")
}

func (c *growthCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	given := setFlags(f)
	return runCommand(ctx, "main.growth", func(ctx context.Context, a *app) error {
		defaults, err := a.svc.Defaults()
		if err != nil {
			return err
		}
		req := defaults.Growth
		if given["initial"] {
			req.InitialInvestment = c.initial
		}
		if given["contribution"] {
			req.AnnualContribution = c.contribution
		}
		if given["rate"] {
			req.AnnualRate = c.rate
		}
		if given["years"] {
			req.TermYears = c.years
		}
		if given["compounding"] {
			if req.CompoundingFrequency, err = frequency.CompoundingFrequencies.Parse("compounding", c.compounding); err != nil {
				return err
			}
		}
		if given["contribution-frequency"] {
			if req.ContributionFrequency, err = frequency.ContributionFrequencies.Parse("contribution-frequency", c.contributionFrequency); err != nil {
				return err
			}
		}

		resp, err := a.svc.Grow(ctx, req)
		if err != nil {
			return err
		}
		return writeGrowth(a, resp)
	})
}

func writeGrowth(a *app, resp *calculator.GrowthResponse) error {
	switch a.outputFormat {
	case constants.OutputFormatCSV:
		return output.GrowthCSV(a.out, resp.Schedule)
	case constants.OutputFormatJSON:
		return output.JSON(a.out, resp)
	default:
		return output.PrettyGrowth(a.out, output.GrowthSummary{
			FinalBalance:     resp.FinalBalance,
			TotalContributed: resp.TotalContributed,
			TotalInterest:    resp.TotalInterest,
			ROIPercent:       resp.ROIPercent,
		}, resp.Schedule)
	}
}
