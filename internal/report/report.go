// Package report builds the printable financial report: a single
// self-contained HTML document with inline styles, suitable for the
// browser's print-to-PDF flow.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/palette"
)

type (
	// Row is one transaction line in the report table.
	Row struct {
		Date          string
		Description   string
		Category      string
		CategoryColor string
		Type          string
		Amount        string
		Income        bool
	}

	// CategoryRow is one line of the category breakdown table.
	CategoryRow struct {
		Name     string
		Color    string
		Amount   string
		Percent  string
		BarWidth int
	}

	Data struct {
		GeneratedAt     string
		MonthLabel      string
		Balance         string
		BalancePositive bool
		MonthlyIncome   string
		MonthlyExpense  string
		MonthlyNet      string
		NetPositive     bool
		Rows            []Row
		Categories      []CategoryRow
		CategoryTotal   string
	}
)

// Build assembles report data from the full transaction list for the given
// "YYYY-MM" month. All aggregation happens here; the template only lays
// the numbers out.
func Build(txns []core.Transaction, month, symbol string, generatedAt time.Time) Data {
	balance := core.Balance(txns)
	income := core.MonthlyIncome(txns, month)
	expense := core.MonthlyExpense(txns, month)
	net := income.Cents - expense.Cents

	d := Data{
		GeneratedAt:     generatedAt.Format("2 January 2006"),
		MonthLabel:      monthLabel(month),
		Balance:         balance.Format(symbol),
		BalancePositive: balance.Cents >= 0,
		MonthlyIncome:   income.Format(symbol),
		MonthlyExpense:  expense.Format(symbol),
		MonthlyNet:      core.Money{Cents: net}.Format(symbol),
		NetPositive:     net >= 0,
	}

	monthly := core.ApplyFilter(txns, core.Filter{Type: core.FilterAll, Month: month})
	for _, t := range monthly {
		d.Rows = append(d.Rows, Row{
			Date:          t.Date.Format("2 Jan 2006"),
			Description:   t.Description,
			Category:      t.Category.Title(),
			CategoryColor: palette.CSS(t.Category),
			Type:          typeLabel(t.Type()),
			Amount:        t.Amount.Format(symbol),
			Income:        t.Amount.Cents > 0,
		})
	}

	totals := core.CategoryTotals(txns, core.ExpensesInMonth(month))
	ranked := core.TopCategories(totals, len(totals))
	var totalExpense int64
	for _, ct := range ranked {
		totalExpense += ct.Cents
	}
	for _, ct := range ranked {
		percent := 0.0
		width := 0
		if totalExpense > 0 {
			percent = float64(ct.Cents) / float64(totalExpense) * 100
			width = int(percent)
			if width < 1 {
				width = 1
			}
		}
		d.Categories = append(d.Categories, CategoryRow{
			Name:     ct.Category.Title(),
			Color:    palette.CSS(ct.Category),
			Amount:   core.Money{Cents: ct.Cents}.Format(symbol),
			Percent:  fmt.Sprintf("%.1f%%", percent),
			BarWidth: width,
		})
	}
	d.CategoryTotal = core.Money{Cents: totalExpense}.Format(symbol)

	return d
}

// Generate renders the report document. Errors carry the underlying
// template failure.
func Generate(d Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func monthLabel(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return t.Format("January 2006")
}

func typeLabel(t core.TxnType) string {
	if t == core.TypeIncome {
		return "Income"
	}
	return "Expense"
}

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Personal Finance Report</title>
<meta charset="UTF-8">
<style>
  body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 40px; color: #333; line-height: 1.6; }
  .report-header { text-align: center; margin-bottom: 40px; border-bottom: 3px solid #4361ee; padding-bottom: 20px; }
  .report-header h1 { color: #4361ee; font-size: 32px; margin-bottom: 10px; }
  .report-header p { color: #666; font-size: 16px; }
  .summary-section { background: #f8f9fa; padding: 25px; border-radius: 12px; margin-bottom: 30px; }
  .summary-section h2 { color: #4361ee; margin-bottom: 20px; font-size: 22px; }
  .summary-grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 20px; }
  .summary-item { background: white; padding: 20px; border-radius: 10px; text-align: center; }
  .summary-item h3 { font-size: 16px; color: #666; margin-bottom: 10px; }
  .summary-item .amount { font-size: 24px; font-weight: bold; }
  .positive { color: #06d6a0; }
  .negative { color: #ef476f; }
  .transactions-section h2 { color: #4361ee; font-size: 22px; margin-bottom: 20px; padding-bottom: 10px; border-bottom: 2px solid #e9ecef; }
  table { width: 100%; border-collapse: collapse; margin-bottom: 30px; border-radius: 10px; overflow: hidden; }
  th { background: #4361ee; color: white; padding: 15px; text-align: left; font-weight: 600; }
  td { padding: 12px 15px; border-bottom: 1px solid #e9ecef; }
  tr:nth-child(even) { background: #f8f9fa; }
  .category-tag { display: inline-block; padding: 4px 12px; border-radius: 20px; font-size: 12px; font-weight: 500; }
  .total-row { background: #f8f9fa !important; font-weight: bold; border-top: 2px solid #dee2e6; }
  .bar-track { background: #e9ecef; border-radius: 10px; height: 10px; width: 200px; }
  .bar { height: 100%; border-radius: 10px; }
  .no-data { text-align: center; padding: 40px; background: #f8f9fa; border-radius: 10px; }
  .no-data h3 { color: #6c757d; }
  .footer { text-align: center; margin-top: 50px; padding-top: 20px; border-top: 1px solid #dee2e6; color: #6c757d; font-size: 14px; }
  @media print { body { margin: 20px; } .summary-grid { break-inside: avoid; } table { break-inside: avoid; } }
</style>
</head>
<body>
<div class="report-header">
  <h1>Personal Finance Report</h1>
  <p>Generated on: {{.GeneratedAt}}</p>
</div>

<div class="summary-section">
  <h2>Financial Summary</h2>
  <div class="summary-grid">
    <div class="summary-item">
      <h3>Total Balance</h3>
      <div class="amount {{if .BalancePositive}}positive{{else}}negative{{end}}">{{.Balance}}</div>
    </div>
    <div class="summary-item">
      <h3>Monthly Income</h3>
      <div class="amount positive">{{.MonthlyIncome}}</div>
    </div>
    <div class="summary-item">
      <h3>Monthly Expenses</h3>
      <div class="amount negative">{{.MonthlyExpense}}</div>
    </div>
  </div>
</div>

<div class="transactions-section">
  <h2>Transactions - {{.MonthLabel}}</h2>
{{if .Rows}}
  <table>
    <thead>
      <tr><th>Date</th><th>Description</th><th>Category</th><th>Type</th><th>Amount</th></tr>
    </thead>
    <tbody>
{{range .Rows}}
      <tr>
        <td>{{.Date}}</td>
        <td>{{.Description}}</td>
        <td><span class="category-tag" style="background: {{.CategoryColor}}20; color: {{.CategoryColor}}">{{.Category}}</span></td>
        <td>{{.Type}}</td>
        <td class="{{if .Income}}positive{{else}}negative{{end}}">{{if .Income}}+{{end}}{{.Amount}}</td>
      </tr>
{{end}}
      <tr class="total-row">
        <td colspan="4"><strong>Monthly Total</strong></td>
        <td class="{{if .NetPositive}}positive{{else}}negative{{end}}"><strong>{{.MonthlyNet}}</strong></td>
      </tr>
    </tbody>
  </table>
{{if .Categories}}
  <div class="summary-section">
    <h2>Category Breakdown</h2>
    <table>
      <thead>
        <tr><th>Category</th><th>Amount</th><th>Percentage</th><th>Progress</th></tr>
      </thead>
      <tbody>
{{range .Categories}}
        <tr>
          <td><span class="category-tag" style="background: {{.Color}}20; color: {{.Color}}">{{.Name}}</span></td>
          <td>{{.Amount}}</td>
          <td>{{.Percent}}</td>
          <td><div class="bar-track"><div class="bar" style="background: {{.Color}}; width: {{.BarWidth}}%"></div></div></td>
        </tr>
{{end}}
        <tr class="total-row">
          <td><strong>Total Expenses</strong></td>
          <td><strong>{{.CategoryTotal}}</strong></td>
          <td><strong>100%</strong></td>
          <td></td>
        </tr>
      </tbody>
    </table>
  </div>
{{end}}
{{else}}
  <div class="no-data">
    <h3>No transactions for this month</h3>
    <p>Add transactions to see your financial data here.</p>
  </div>
{{end}}
</div>

<div class="footer">
  <p>Generated by fintrack &bull; for personal use only.</p>
</div>
</body>
</html>
`))
