package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "entrada"
	Expense Kind = "saida"
)

// DateLayout is the fixed day-month-year format used in ledger files.
const DateLayout = "02-01-2006"

type (
	Kind string

	// Entry is one ledger line, field for field as stored in the CSV file.
	// Date stays a string here: unparseable dates remain in storage and are
	// only dropped when the analysis layer parses them.
	Entry struct {
		Date        string
		Kind        Kind
		Category    string
		Description string
		Amount      decimal.Decimal
		Responsible string
	}
)

var (
	ErrInvalidKind      = errors.New("invalid entry kind")
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyResponsible = errors.New("empty responsible")
)

// Valid reports whether k is one of the two ledger kinds.
func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

func (e Entry) Validate() error {
	if !e.Kind.Valid() {
		return ErrInvalidKind
	}
	if e.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(e.Responsible) == "" {
		return ErrEmptyResponsible
	}
	return nil
}

// ParseEntryDate parses a stored date under the fixed DD-MM-YYYY layout.
func ParseEntryDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// FormatEntryDate renders t the way new entries are stamped.
func FormatEntryDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NormalizeCategory returns the trimmed, lower-cased grouping key for a
// category. The stored value keeps its original casing.
func NormalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MonthKey returns the 4-digit-year, 2-digit-month bucket for t.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
