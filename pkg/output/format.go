// Package output provides utilities for formatting and displaying calculator results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/finance-calculators/pkg/format"
	"github.com/iwvelando/finance-calculators/pkg/growth"
	"github.com/iwvelando/finance-calculators/pkg/loans"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// AmortizationSummary carries the headline values printed above a loan table.
type AmortizationSummary struct {
	Payment       float64
	TotalPaid     float64
	TotalInterest float64
}

// GrowthSummary carries the headline values printed above a growth table.
type GrowthSummary struct {
	FinalBalance     float64
	TotalContributed float64
	TotalInterest    float64
	ROIPercent       float64
}

// PrettyAmortization outputs a human-readable amortization table. Cells are
// rounded the same way as the summary line.
func PrettyAmortization(w io.Writer, summary AmortizationSummary, periods []loans.Period) error {
	p := message.NewPrinter(language.English)
	if _, err := fmt.Fprintf(w, "--- Amortization schedule ---\n"); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Payment: %s | Total paid: %s | Total interest: %s\n",
		format.Currency(summary.Payment), format.Currency(summary.TotalPaid), format.Currency(summary.TotalInterest))
	_, _ = fmt.Fprintf(w, "Period | Opening balance | Payment | Interest | Principal | Closing balance\n")
	_, _ = fmt.Fprintf(w, "______ | _______________ | _______ | ________ | _________ | _______________\n")
	for _, period := range periods {
		if _, err := p.Fprintf(w, "%d | $%s | $%s | $%s | $%s | $%s\n",
			period.Period, format.NumericCurrency(period.OpeningBalance), format.NumericCurrency(period.Payment),
			format.NumericCurrency(period.Interest), format.NumericCurrency(period.Principal),
			format.NumericCurrency(period.ClosingBalance)); err != nil {
			return err
		}
	}
	return nil
}

// AmortizationCSV outputs an amortization table in comma-separated value format.
func AmortizationCSV(w io.Writer, periods []loans.Period) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"period", "opening_balance", "payment", "interest", "principal", "closing_balance"}); err != nil {
		return err
	}
	for _, period := range periods {
		record := []string{
			strconv.Itoa(period.Period),
			format.Fixed(period.OpeningBalance),
			format.Fixed(period.Payment),
			format.Fixed(period.Interest),
			format.Fixed(period.Principal),
			format.Fixed(period.ClosingBalance),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// PrettyGrowth outputs a human-readable growth table.
func PrettyGrowth(w io.Writer, summary GrowthSummary, records []growth.YearRecord) error {
	p := message.NewPrinter(language.English)
	if _, err := fmt.Fprintf(w, "--- Compound growth projection ---\n"); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Final balance: %s | Total invested: %s | Total interest: %s | ROI: %s\n",
		format.Currency(summary.FinalBalance), format.Currency(summary.TotalContributed),
		format.Currency(summary.TotalInterest), format.Percent(summary.ROIPercent))
	_, _ = fmt.Fprintf(w, "Year | Opening balance | Contributions | Interest | Closing balance\n")
	_, _ = fmt.Fprintf(w, "____ | _______________ | _____________ | ________ | _______________\n")
	for _, record := range records {
		if _, err := p.Fprintf(w, "%d | $%s | $%s | $%s | $%s\n",
			record.Year, format.NumericCurrency(record.OpeningBalance), format.NumericCurrency(record.Contributions),
			format.NumericCurrency(record.Interest), format.NumericCurrency(record.ClosingBalance)); err != nil {
			return err
		}
	}
	return nil
}

// GrowthCSV outputs a growth table in comma-separated value format.
func GrowthCSV(w io.Writer, records []growth.YearRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"year", "opening_balance", "contributions", "interest", "closing_balance"}); err != nil {
		return err
	}
	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Year),
			format.Fixed(record.OpeningBalance),
			format.Fixed(record.Contributions),
			format.Fixed(record.Interest),
			format.Fixed(record.ClosingBalance),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// KeyValues outputs label/value lines, e.g. a rate conversion or an IRR result.
func KeyValues(w io.Writer, title string, pairs [][2]string) error {
	if _, err := fmt.Fprintf(w, "--- %s ---\n", title); err != nil {
		return err
	}
	for _, pair := range pairs {
		if _, err := fmt.Fprintf(w, "%s: %s\n", pair[0], pair[1]); err != nil {
			return err
		}
	}
	return nil
}

// JSON outputs v as indented JSON.
func JSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// KeyValuesCSV outputs label/value pairs as two-column CSV with a header row.
func KeyValuesCSV(w io.Writer, pairs [][2]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"field", "value"}); err != nil {
		return err
	}
	for _, pair := range pairs {
		if err := writer.Write(pair[:]); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
