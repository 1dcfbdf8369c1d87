package core

import "sort"

// FilterAll matches every value for either filter dimension.
const FilterAll = "all"

// Filter selects the visible subset of transactions.
// Type is one of "all", "income", "expense"; Month is "all" or "YYYY-MM".
type Filter struct {
	Type  string
	Month string
}

func (f Filter) matches(t Transaction) bool {
	switch f.Type {
	case "", FilterAll:
	case string(TypeIncome):
		if t.Amount.Cents <= 0 {
			return false
		}
	case string(TypeExpense):
		if t.Amount.Cents >= 0 {
			return false
		}
	default:
		return false
	}
	if f.Month != "" && f.Month != FilterAll && t.Date.YearMonth() != f.Month {
		return false
	}
	return true
}

// ApplyFilter returns the matching subset ordered by date descending.
// Same-date entries keep reverse insertion order, so the most recently
// added transaction comes first.
func ApplyFilter(txns []Transaction, f Filter) []Transaction {
	type entry struct {
		txn Transaction
		pos int
	}
	var selected []entry
	for i, t := range txns {
		if f.matches(t) {
			selected = append(selected, entry{txn: t, pos: i})
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if !a.txn.Date.Equal(b.txn.Date.Time) {
			return a.txn.Date.After(b.txn.Date.Time)
		}
		return a.pos > b.pos
	})
	out := make([]Transaction, len(selected))
	for i, e := range selected {
		out[i] = e.txn
	}
	return out
}

// AvailableMonths lists the distinct "YYYY-MM" values present, newest first.
func AvailableMonths(txns []Transaction) []string {
	seen := make(map[string]bool)
	var months []string
	for _, t := range txns {
		m := t.Date.YearMonth()
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}
