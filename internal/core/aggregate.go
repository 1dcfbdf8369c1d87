package core

import "sort"

// DefaultTopCategories bounds the ranked category breakdown shown in the
// chart and report.
const DefaultTopCategories = 8

const (
	TrendNeutral TrendDirection = iota
	TrendUp
	TrendDown
)

type (
	TrendDirection int

	// Trend is the delta between two consecutive balance computations,
	// used only for directional display.
	Trend struct {
		Delta     Money
		Direction TrendDirection
	}

	// CategoryTotal is one category's aggregated magnitude in cents.
	CategoryTotal struct {
		Category Category
		Cents    int64
	}
)

// Balance sums all signed amounts. Reordering the input never changes the
// result.
func Balance(txns []Transaction) Money {
	var sum int64
	for _, t := range txns {
		sum += t.Amount.Cents
	}
	return Money{Cents: sum}
}

// MonthlyIncome sums positive amounts whose date falls in the given
// "YYYY-MM" month.
func MonthlyIncome(txns []Transaction, month string) Money {
	var sum int64
	for _, t := range txns {
		if t.Amount.Cents > 0 && t.Date.YearMonth() == month {
			sum += t.Amount.Cents
		}
	}
	return Money{Cents: sum}
}

// MonthlyExpense sums the magnitudes of negative amounts in the given
// "YYYY-MM" month.
func MonthlyExpense(txns []Transaction, month string) Money {
	var sum int64
	for _, t := range txns {
		if t.Amount.Cents < 0 && t.Date.YearMonth() == month {
			sum += -t.Amount.Cents
		}
	}
	return Money{Cents: sum}
}

// TrendOf classifies the movement between two consecutive balances.
func TrendOf(current, previous Money) Trend {
	delta := current.Cents - previous.Cents
	dir := TrendNeutral
	switch {
	case delta > 0:
		dir = TrendUp
	case delta < 0:
		dir = TrendDown
	}
	return Trend{Delta: Money{Cents: delta}, Direction: dir}
}

// CategoryTotals groups transactions matching pred by category, summing
// magnitudes. Categories appear in first-encounter order, which is what
// makes TopCategories' tie-breaking stable.
func CategoryTotals(txns []Transaction, pred func(Transaction) bool) []CategoryTotal {
	index := make(map[Category]int)
	var totals []CategoryTotal
	for _, t := range txns {
		if pred != nil && !pred(t) {
			continue
		}
		i, seen := index[t.Category]
		if !seen {
			i = len(totals)
			index[t.Category] = i
			totals = append(totals, CategoryTotal{Category: t.Category})
		}
		totals[i].Cents += t.Amount.Abs().Cents
	}
	return totals
}

// TopCategories returns at most n entries sorted by total descending.
// Ties keep their original encounter order. n <= 0 falls back to
// DefaultTopCategories.
func TopCategories(totals []CategoryTotal, n int) []CategoryTotal {
	if n <= 0 {
		n = DefaultTopCategories
	}
	ranked := make([]CategoryTotal, len(totals))
	copy(ranked, totals)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Cents > ranked[j].Cents
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ExpensesInMonth is the predicate behind the chart and report breakdowns:
// expense transactions within the given "YYYY-MM" month.
func ExpensesInMonth(month string) func(Transaction) bool {
	return func(t Transaction) bool {
		return t.Amount.Cents < 0 && t.Date.YearMonth() == month
	}
}
