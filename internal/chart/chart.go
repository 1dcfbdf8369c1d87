// Package chart renders the category breakdown as a PNG doughnut.
package chart

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"fintrack/internal/core"
	"fintrack/internal/palette"
)

// ErrNoData is returned when there is nothing positive to draw.
var ErrNoData = errors.New("no chart data")

// RenderCategoryDonut renders ranked category totals as a doughnut chart.
// Returns raw PNG bytes. The caller decides what an empty month looks
// like; rendering zero values is an error here.
func RenderCategoryDonut(totals []core.CategoryTotal) ([]byte, error) {
	if len(totals) == 0 {
		return nil, ErrNoData
	}

	values := make([]chart.Value, 0, len(totals))
	for _, ct := range totals {
		if ct.Cents <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: ct.Category.Title(),
			Value: float64(ct.Cents) / 100,
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex(palette.Hex(ct.Category)),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
			},
		})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	graph := chart.DonutChart{
		Width:  520,
		Height: 520,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		Values: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
