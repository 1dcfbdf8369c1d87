// Package palette owns the category color lookup shared by the chart
// renderer and the report generator, so the two can never drift apart.
package palette

import "fintrack/internal/core"

var colors = map[core.Category]string{
	core.CategoryFood:          "FF6B6B",
	core.CategoryTransport:     "4ECDC4",
	core.CategoryShopping:      "FFD166",
	core.CategoryEntertainment: "06D6A0",
	core.CategoryBills:         "118AB2",
	core.CategoryHealth:        "EF476F",
	core.CategoryEducation:     "7209B7",
	core.CategorySalary:        "4361EE",
	core.CategoryFreelance:     "3A0CA3",
	core.CategoryInvestment:    "F8961E",
	core.CategoryOther:         "6C757D",
}

const fallback = "6C757D"

// Hex returns the category color as a bare hex string, e.g. "FF6B6B".
func Hex(c core.Category) string {
	if hex, ok := colors[c]; ok {
		return hex
	}
	return fallback
}

// CSS returns the category color in CSS form, e.g. "#FF6B6B".
func CSS(c core.Category) string {
	return "#" + Hex(c)
}
