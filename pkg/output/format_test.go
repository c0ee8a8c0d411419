package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/iwvelando/finance-calculators/pkg/frequency"
	"github.com/iwvelando/finance-calculators/pkg/growth"
	"github.com/iwvelando/finance-calculators/pkg/loans"
)

func samplePeriods() []loans.Period {
	return []loans.Period{
		{Period: 1, OpeningBalance: 2000, Payment: 1025.06, Interest: 16.67, Principal: 1008.39, ClosingBalance: 991.61},
		{Period: 2, OpeningBalance: 991.61, Payment: 999.87, Interest: 8.26, Principal: 991.61, ClosingBalance: 0},
	}
}

func TestPrettyAmortization(t *testing.T) {
	var buf bytes.Buffer
	summary := AmortizationSummary{Payment: 1025.06, TotalPaid: 2024.93, TotalInterest: 24.93}
	if err := PrettyAmortization(&buf, summary, samplePeriods()); err != nil {
		t.Fatalf("PrettyAmortization() unexpected error = %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "--- Amortization schedule ---") {
		t.Errorf("PrettyAmortization missing header")
	}
	if !strings.Contains(output, "Period | Opening balance | Payment | Interest | Principal | Closing balance") {
		t.Errorf("PrettyAmortization missing table header")
	}
	if !strings.Contains(output, "1 | $2,000.00 | $1,025.06 | $16.67 | $1,008.39 | $991.61") {
		t.Errorf("PrettyAmortization missing first row, got:\n%s", output)
	}
	if !strings.Contains(output, "Total paid: $2,024.93") {
		t.Errorf("PrettyAmortization missing totals")
	}
}

func TestPrettyTablesRoundLikeSummary(t *testing.T) {
	tests := []struct {
		name   string
		render func(w *bytes.Buffer) error
		want   string
	}{
		{
			name: "Amortization row",
			render: func(w *bytes.Buffer) error {
				return PrettyAmortization(w, AmortizationSummary{}, []loans.Period{
					{Period: 1, OpeningBalance: 1234.565, Payment: 2.675, Interest: 0.125, Principal: 2.55, ClosingBalance: 1232.015},
				})
			},
			want: "1 | $1,234.57 | $2.68 | $0.13 | $2.55 | $1,232.02",
		},
		{
			name: "Growth row",
			render: func(w *bytes.Buffer) error {
				return PrettyGrowth(w, GrowthSummary{}, []growth.YearRecord{
					{Year: 1, OpeningBalance: 1000, Contributions: 0.125, Interest: 2.675, ClosingBalance: 1002.8},
				})
			},
			want: "1 | $1,000.00 | $0.13 | $2.68 | $1,002.80",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.render(&buf); err != nil {
				t.Fatalf("render error = %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("missing row %q, got:\n%s", tt.want, buf.String())
			}
		})
	}
}

func TestAmortizationCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := AmortizationCSV(&buf, samplePeriods()); err != nil {
		t.Fatalf("AmortizationCSV() unexpected error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "period" || records[0][5] != "closing_balance" {
		t.Errorf("Unexpected header %v", records[0])
	}
	if records[1][1] != "2000.00" {
		t.Errorf("Opening balance = %q, expected 2000.00 without separators", records[1][1])
	}
	if records[2][5] != "0.00" {
		t.Errorf("Final closing balance = %q, expected 0.00", records[2][5])
	}
}

func TestGrowthOutputs(t *testing.T) {
	final, contributed, interest, records, err := growth.BuildCompoundGrowthSchedule(
		10000, 0, 7, 10, frequency.Monthly, frequency.None)
	if err != nil {
		t.Fatalf("BuildCompoundGrowthSchedule() unexpected error = %v", err)
	}

	var pretty bytes.Buffer
	summary := GrowthSummary{FinalBalance: final, TotalContributed: contributed, TotalInterest: interest, ROIPercent: 100.97}
	if err := PrettyGrowth(&pretty, summary, records); err != nil {
		t.Fatalf("PrettyGrowth() unexpected error = %v", err)
	}
	if !strings.Contains(pretty.String(), "Final balance: $20,096.61") {
		t.Errorf("PrettyGrowth missing final balance, got:\n%s", pretty.String())
	}
	if !strings.Contains(pretty.String(), "ROI: 100.97%") {
		t.Errorf("PrettyGrowth missing ROI")
	}
	if !strings.Contains(pretty.String(), "10 | $18,741.77 |") {
		t.Errorf("PrettyGrowth missing last year row, got:\n%s", pretty.String())
	}

	var buf bytes.Buffer
	if err := GrowthCSV(&buf, records); err != nil {
		t.Fatalf("GrowthCSV() unexpected error = %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(rows) != 11 {
		t.Fatalf("Expected header plus 10 rows, got %d", len(rows))
	}
	if rows[10][4] != "20096.61" {
		t.Errorf("Final closing = %q, expected 20096.61", rows[10][4])
	}
}

func TestKeyValuesAndJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := KeyValues(&buf, "Rate conversion", [][2]string{{"Result", "5.12%"}}); err != nil {
		t.Fatalf("KeyValues() unexpected error = %v", err)
	}
	if buf.String() != "--- Rate conversion ---\nResult: 5.12%\n" {
		t.Errorf("KeyValues() = %q", buf.String())
	}

	buf.Reset()
	if err := JSON(&buf, map[string]float64{"npv": 3887.71}); err != nil {
		t.Fatalf("JSON() unexpected error = %v", err)
	}
	if !strings.Contains(buf.String(), `"npv": 3887.71`) {
		t.Errorf("JSON() = %q", buf.String())
	}
}

func TestKeyValuesCSV(t *testing.T) {
	var buf bytes.Buffer
	pairs := [][2]string{{"npv", "3887.71"}, {"decision", "accept, irr above rate"}}
	if err := KeyValuesCSV(&buf, pairs); err != nil {
		t.Fatalf("KeyValuesCSV() unexpected error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "field" {
		t.Fatalf("unexpected rows %v", rows)
	}
	if rows[2][1] != "accept, irr above rate" {
		t.Errorf("quoted value = %q", rows[2][1])
	}
}
