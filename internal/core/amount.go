package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a monetary amount string into an exact decimal.
// Accepted forms include "123.45", "$123.45", "-123.45", "1,234.56" and
// the parentheses negative notation "(123.45)".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, NewValidationError("empty amount string")
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	// Strip currency symbols and thousands separators.
	s = strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', '¥', ',':
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, NewValidationError("could not parse amount '%s'", s)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}
