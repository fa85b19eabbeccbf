package domain

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Zero is the zero money value.
var Zero = decimal.Zero

// Cents rounds d to whole cents. decimal.Round rounds half away from zero,
// which is round-half-up for the non-negative amounts this package handles.
func Cents(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// Dollars parses a literal amount such as "14600" or "0.062".
// It panics on malformed input and is meant for static tables and tests.
func Dollars(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Amount converts a float entered by a caller into a decimal amount.
func Amount(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// MaxZero returns d, or zero when d is negative.
func MaxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// SafeDiv divides a by b, returning zero when b is zero.
func SafeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

// USD formats d for display, e.g. "$1,234.50" or "-$80.00".
func USD(d decimal.Decimal) string {
	d = Cents(d)
	sign := ""
	if d.IsNegative() {
		sign, d = "-", d.Neg()
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", d.InexactFloat64())
}

// Percent formats a percentage value, e.g. "22.93%".
func Percent(d decimal.Decimal) string { return d.StringFixed(2) + "%" }
