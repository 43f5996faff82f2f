// Package report turns a loaded ledger table into the filtered,
// aggregated view the dashboard shows: parsed rows, filter options,
// totals and the two chart series.
package report

import (
	"strings"
	"time"

	"financas/internal/core"
	"financas/internal/ledger"
)

// Row is one analyzable ledger line: the stored entry plus the parsed
// date and the derived values used for filtering and grouping. Rows
// whose date does not parse never become a Row, so they are excluded
// from every view and aggregate, not just the date-dependent ones.
type Row struct {
	Position    int
	Entry       core.Entry
	Date        time.Time
	Month       string // YYYY-MM bucket of Date
	Category    string // trimmed, original casing; filter key
	CategoryKey string // trimmed + lower-cased; grouping key
	Responsible string // trimmed
	Description string // trimmed
}

// Normalize derives analysis rows from a loaded table. Rows with
// unparseable dates are silently dropped.
func Normalize(table ledger.Table) []Row {
	rows := make([]Row, 0, len(table))
	for _, tr := range table {
		date, err := core.ParseEntryDate(tr.Entry.Date)
		if err != nil {
			continue
		}
		cat := strings.TrimSpace(tr.Entry.Category)
		rows = append(rows, Row{
			Position:    tr.Position,
			Entry:       tr.Entry,
			Date:        date,
			Month:       core.MonthKey(date),
			Category:    cat,
			CategoryKey: core.NormalizeCategory(tr.Entry.Category),
			Responsible: strings.TrimSpace(tr.Entry.Responsible),
			Description: strings.TrimSpace(tr.Entry.Description),
		})
	}
	return rows
}
