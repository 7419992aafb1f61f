package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseMoney(t *testing.T) {
	assert.Equal(t, "150.5", ParseMoney(" 150.50 ").String())
	assert.True(t, ParseMoney("").IsZero())
	assert.True(t, ParseMoney("abc").IsZero())
	assert.True(t, ParseMoneyPtr(nil).IsZero())
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in     string
		plain  string
		signed string
	}{
		{"0", "$0.00", "$0.00"},
		{"5", "$5.00", "+$5.00"},
		{"999.999", "$1,000.00", "+$1,000.00"},
		{"1234.5", "$1,234.50", "+$1,234.50"},
		{"-20", "-$20.00", "-$20.00"},
		{"1234567.89", "$1,234,567.89", "+$1,234,567.89"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d := decimal.RequireFromString(tt.in)
			assert.Equal(t, tt.plain, FormatMoney(d))
			assert.Equal(t, tt.signed, FormatSignedMoney(d))
		})
	}
}

func TestDate(t *testing.T) {
	d, err := ParseDate(" 2024-01-08 ")
	assert.NoError(t, err)
	assert.Equal(t, Date("2024-01-08"), d)
	assert.Equal(t, "01/08/2024", d.Display())
	assert.Equal(t, Date("2024-03-01"), Date("2024-02-29").AddDays(1))

	_, err = ParseDate("2024-02-30")
	assert.Error(t, err)

	assert.True(t, Date("").IsZero())
	assert.Equal(t, Date(""), Date("").AddDays(3))
}
