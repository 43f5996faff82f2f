package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"financas/internal/core"
)

// CategoryTotal is one bar of the spend-by-category chart. Key is the
// normalized (trimmed, lower-cased) category, so "Lazer" and "lazer"
// merge into one bucket.
type CategoryTotal struct {
	Key   string
	Total decimal.Decimal
}

// MonthFlow is one bar of the income-vs-expense chart: the sum for one
// (month, kind) pair. Months missing a kind carry an explicit zero.
type MonthFlow struct {
	Month string
	Kind  core.Kind
	Total decimal.Decimal
}

// Summary is everything the dashboard derives from a filtered table.
type Summary struct {
	TotalIncome     decimal.Decimal
	TotalExpense    decimal.Decimal
	Balance         decimal.Decimal
	SpendByCategory []CategoryTotal
	MonthlyFlows    []MonthFlow
}

// Summarize computes totals and the two chart series over the given
// rows. Sums are plain decimal addition; an empty input yields zero
// totals and empty series.
func Summarize(rows []Row) Summary {
	s := Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	byCategory := map[string]decimal.Decimal{}
	byMonthKind := map[string]map[core.Kind]decimal.Decimal{}

	for _, r := range rows {
		switch r.Entry.Kind {
		case core.Income:
			s.TotalIncome = s.TotalIncome.Add(r.Entry.Amount)
		case core.Expense:
			s.TotalExpense = s.TotalExpense.Add(r.Entry.Amount)
			byCategory[r.CategoryKey] = byCategory[r.CategoryKey].Add(r.Entry.Amount)
		default:
			continue
		}
		if byMonthKind[r.Month] == nil {
			byMonthKind[r.Month] = map[core.Kind]decimal.Decimal{}
		}
		byMonthKind[r.Month][r.Entry.Kind] = byMonthKind[r.Month][r.Entry.Kind].Add(r.Entry.Amount)
	}

	s.Balance = s.TotalIncome.Sub(s.TotalExpense)

	catKeys := make([]string, 0, len(byCategory))
	for k := range byCategory {
		catKeys = append(catKeys, k)
	}
	sort.Strings(catKeys)
	for _, k := range catKeys {
		s.SpendByCategory = append(s.SpendByCategory, CategoryTotal{Key: k, Total: byCategory[k]})
	}

	monthKeys := make([]string, 0, len(byMonthKind))
	for m := range byMonthKind {
		monthKeys = append(monthKeys, m)
	}
	sort.Strings(monthKeys)
	for _, m := range monthKeys {
		for _, kind := range []core.Kind{core.Income, core.Expense} {
			total, ok := byMonthKind[m][kind]
			if !ok {
				total = decimal.Zero
			}
			s.MonthlyFlows = append(s.MonthlyFlows, MonthFlow{Month: m, Kind: kind, Total: total})
		}
	}

	return s
}
