// Package core provides the ledger domain types and amount parsing.
//
// Two parsers exist on purpose. ParseAmount guards the form boundary and
// rejects garbage; CoerceAmount guards the load boundary and degrades
// garbage to zero, so a hand-edited ledger file never fails to load.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned by ParseAmount for unparseable input.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount converts user-typed amount input to a decimal value.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators; the
// comma form is converted before storage so files always carry dots.
// Negative amounts are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}

// CoerceAmount converts a stored amount column value to a decimal,
// treating non-numeric or missing values as zero. Stored values use a
// dot separator; anything else counts as non-numeric.
func CoerceAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
