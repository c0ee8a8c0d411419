package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/iwvelando/finance-calculators/internal/calculator"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/frequency"
	"github.com/iwvelando/finance-calculators/pkg/output"
	"github.com/iwvelando/finance-calculators/pkg/rates"
)

// ratesCmd holds the flags for the 'rates' subcommand.
type ratesCmd struct {
	conversion string
	rate       float64
	frequency  string
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "convert between nominal, effective and periodic rates" }
func (*ratesCmd) Usage() string {
	return `finance-calculators [-output-format pretty|csv|json] rates [-conversion C] [-rate R] [-frequency F]

  Conversions: nominal-to-effective, effective-to-nominal,
  periodic-to-effective, effective-to-periodic. Rates are percentages.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.conversion, "conversion", "", "conversion to apply")
	f.Float64Var(&c.rate, "rate", 0, "input rate in percent")
	f.StringVar(&c.frequency, "frequency", "", "periods per year: daily, semimonthly, monthly, bimonthly, quarterly, four-monthly, semiannual, annual")
}

func (c *ratesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	given := setFlags(f)
	return runCommand(ctx, "main.rates", func(ctx context.Context, a *app) error {
		defaults, err := a.svc.Defaults()
		if err != nil {
			return err
		}
		req := defaults.Rates
		if given["conversion"] {
			if req.Conversion, err = rates.ParseConversion(c.conversion); err != nil {
				return err
			}
		}
		if given["rate"] {
			req.Rate = c.rate
		}
		if given["frequency"] {
			if req.Frequency, err = frequency.ConversionFrequencies.Parse("frequency", c.frequency); err != nil {
				return err
			}
		}

		resp, err := a.svc.ConvertRate(ctx, req)
		if err != nil {
			return err
		}
		return writeRate(a, resp)
	})
}

func writeRate(a *app, resp *calculator.RateConversionResponse) error {
	pairs := [][2]string{
		{"Conversion", string(resp.Request.Conversion)},
		{"Frequency", resp.Request.Frequency.String()},
		{"Input rate", fmt.Sprintf("%.6f%%", resp.Request.Rate)},
		{"Result", fmt.Sprintf("%.6f%%", resp.Result)},
	}
	switch a.outputFormat {
	case constants.OutputFormatCSV:
		return output.KeyValuesCSV(a.out, pairs)
	case constants.OutputFormatJSON:
		return output.JSON(a.out, resp)
	default:
		return output.KeyValues(a.out, "Rate conversion", pairs)
	}
}
