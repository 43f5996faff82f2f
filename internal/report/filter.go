package report

import "sort"

// Filters narrows the table. Empty fields are inactive; active fields
// combine with AND. Month matches the YYYY-MM bucket. Responsible and
// Category match trimmed values exactly; in particular the category
// filter is case-sensitive even though chart grouping is
// case-insensitive, an inconsistency carried over from the original
// behavior (see DESIGN.md).
type Filters struct {
	Month       string
	Responsible string
	Category    string
}

func (f Filters) active() bool {
	return f.Month != "" || f.Responsible != "" || f.Category != ""
}

// Apply returns the rows matching every active filter. With no active
// filter the input is returned unchanged.
func Apply(rows []Row, f Filters) []Row {
	if !f.active() {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if f.Month != "" && r.Month != f.Month {
			continue
		}
		if f.Responsible != "" && r.Responsible != f.Responsible {
			continue
		}
		if f.Category != "" && r.Category != f.Category {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterOptions are the dropdown universes, always computed from the
// unfiltered (but date-valid) table so the dropdowns show every choice
// regardless of the current selection.
type FilterOptions struct {
	Months       []string // newest first
	Responsibles []string // ascending
	Categories   []string // ascending, original casing
}

// Options collects the distinct months, responsibles and categories.
func Options(rows []Row) FilterOptions {
	months := map[string]struct{}{}
	resps := map[string]struct{}{}
	cats := map[string]struct{}{}
	for _, r := range rows {
		months[r.Month] = struct{}{}
		resps[r.Responsible] = struct{}{}
		cats[r.Category] = struct{}{}
	}

	opts := FilterOptions{
		Months:       keys(months),
		Responsibles: keys(resps),
		Categories:   keys(cats),
	}
	sort.Sort(sort.Reverse(sort.StringSlice(opts.Months)))
	sort.Strings(opts.Responsibles)
	sort.Strings(opts.Categories)
	return opts
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
