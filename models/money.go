package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoney converts a decimal string from the row store into an amount.
// Blank or malformed input is treated as zero.
func ParseMoney(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseMoneyPtr is ParseMoney for nullable columns.
func ParseMoneyPtr(s *string) decimal.Decimal {
	if s == nil {
		return decimal.Zero
	}
	return ParseMoney(*s)
}

// SumMoney adds up a list of amounts.
func SumMoney(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// FormatMoney renders an amount as dollars with thousands separators, e.g. -$1,234.50
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	fixed := d.StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + "$" + b.String() + "." + cents
}

// FormatSignedMoney is FormatMoney with an explicit + for gains
func FormatSignedMoney(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + FormatMoney(d)
	}
	return FormatMoney(d)
}
