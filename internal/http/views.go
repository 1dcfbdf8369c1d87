package http

import (
	"time"

	"fintrack/internal/core"
	"fintrack/internal/palette"
)

type (
	summaryData struct {
		Balance        string
		TrendClass     string
		TrendLabel     string
		MonthLabel     string
		MonthlyIncome  string
		MonthlyExpense string
		HasChart       bool
	}

	listItem struct {
		ID            int64
		Description   string
		DateLabel     string
		Category      string
		CategoryLabel string
		CategoryColor string
		Amount        string
		AmountRaw     string
		Date          string
		Income        bool
	}

	listData struct {
		Items       []listItem
		Empty       bool
		FilterType  string
		FilterMonth string
	}

	monthOption struct {
		Value    string
		Label    string
		Selected bool
	}

	monthsData struct {
		Months []monthOption
	}
)

// summaryData computes the summary panel numbers and advances the trend
// snapshot: consecutive renders compare against each other, the first
// render against the loaded balance.
func (s *Server) summaryData(now time.Time) summaryData {
	txns := s.repo.All()
	month := now.Format("2006-01")

	balance := core.Balance(txns)
	income := core.MonthlyIncome(txns, month)
	expense := core.MonthlyExpense(txns, month)

	s.trendMu.Lock()
	if !s.trendPrimed {
		s.prevBalance = balance.Cents
		s.trendPrimed = true
	}
	trend := core.TrendOf(balance, core.Money{Cents: s.prevBalance})
	s.prevBalance = balance.Cents
	s.trendMu.Unlock()

	d := summaryData{
		Balance:        balance.Format(s.symbol),
		MonthLabel:     now.Format("January 2006"),
		MonthlyIncome:  income.Format(s.symbol),
		MonthlyExpense: expense.Format(s.symbol),
		HasChart:       expense.Cents > 0,
	}
	switch trend.Direction {
	case core.TrendUp:
		d.TrendClass = "trend-up"
		d.TrendLabel = "+" + trend.Delta.Format(s.symbol)
	case core.TrendDown:
		d.TrendClass = "trend-down"
		d.TrendLabel = trend.Delta.Format(s.symbol)
	default:
		d.TrendClass = "trend-neutral"
		d.TrendLabel = "No change"
	}
	return d
}

func (s *Server) listData(f core.Filter) listData {
	visible := core.ApplyFilter(s.repo.All(), f)
	d := listData{
		Empty:       len(visible) == 0,
		FilterType:  f.Type,
		FilterMonth: f.Month,
	}
	for _, t := range visible {
		d.Items = append(d.Items, listItem{
			ID:            t.ID,
			Description:   t.Description,
			DateLabel:     t.Date.Format("2 Jan 2006"),
			Category:      string(t.Category),
			CategoryLabel: t.Category.Title(),
			CategoryColor: palette.CSS(t.Category),
			Amount:        t.Amount.Format(s.symbol),
			AmountRaw:     t.Amount.Abs().Decimal(),
			Date:          t.Date.String(),
			Income:        t.Amount.Cents > 0,
		})
	}
	return d
}

func (s *Server) monthsData(selected string) monthsData {
	var d monthsData
	for _, m := range core.AvailableMonths(s.repo.All()) {
		label := m
		if t, err := time.Parse("2006-01", m); err == nil {
			label = t.Format("January 2006")
		}
		d.Months = append(d.Months, monthOption{
			Value:    m,
			Label:    label,
			Selected: m == selected,
		})
	}
	return d
}
