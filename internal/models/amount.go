package models

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var amountReplacer = strings.NewReplacer(
	",", "",
	" ", "",
	"'", "",
	"₩", "",
	"원", "",
	"KRW", "",
	"USD", "",
	"$", "",
	" ", "",
)

// ParseNumber parses a formatted amount string. Thousands separators, currency
// markers and accounting parentheses for negatives are accepted.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = amountReplacer.Replace(s)
	if s == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		f = -f
	}
	return f, true
}

// ParseAmount parses a string amount to decimal.Decimal, returning zero when
// the value is not numeric.
func ParseAmount(s string) decimal.Decimal {
	f, ok := ParseNumber(s)
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// AmountFromCell converts a cell to a non-negative decimal amount. Negative
// values are returned as their absolute value since the side is carried by
// the debit/credit column.
func AmountFromCell(c Cell) decimal.Decimal {
	f, ok := c.Float()
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f).Abs()
}
