// Package format renders amounts and rates for human readers.
package format

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/shopspring/decimal"
)

// minorUnits rounds amount half away from zero to the currency's fraction
// digits and returns it in minor units (cents).
func minorUnits(amount float64, cur *money.Currency) int64 {
	fraction := int32(cur.Fraction)
	return decimal.NewFromFloat(amount).Round(fraction).Shift(fraction).IntPart()
}

func currency() *money.Currency {
	return money.GetCurrency(constants.DefaultCurrency)
}

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	cur := currency()
	return money.New(minorUnits(amount, cur), cur.Code).Display()
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	cur := currency()
	formatter := money.NewFormatter(cur.Fraction, cur.Decimal, cur.Thousand, "", "1")
	return formatter.Format(minorUnits(amount, cur))
}

// Fixed returns amount rounded to two decimals without separators, for machine-readable output.
func Fixed(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// Percent renders a percentage value (5 for 5%) with two decimals.
func Percent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}
