// Package core holds the transaction domain model and the pure aggregation
// and filtering functions that operate on it.
//
// Monetary amounts are integer cents throughout; decimal rendering happens
// only at presentation time so sums never accumulate floating-point drift.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Money is a signed amount in cents. Positive values are income,
// negative values are expenses.
type Money struct {
	Cents int64
}

// ParseDecimalToCents converts a decimal string to a positive magnitude in
// cents with half-up rounding on the third decimal place. It accepts both
// dot (12.34) and comma (12,34) separators. Signs are rejected: the caller
// applies direction after validation.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// Abs returns the magnitude of the amount.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

// Decimal renders the exact signed decimal form, e.g. "-1.50" or "450.00".
// This is also the JSON number representation, so storage round-trips are
// cent-exact.
func (m Money) Decimal() string {
	cents := m.Cents
	var sb strings.Builder
	if cents < 0 {
		sb.WriteByte('-')
		cents = -cents
	}
	sb.WriteString(strconv.FormatInt(cents/100, 10))
	sb.WriteByte('.')
	rem := cents % 100
	if rem < 10 {
		sb.WriteByte('0')
	}
	sb.WriteString(strconv.FormatInt(rem, 10))
	return sb.String()
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal()), nil
}

// UnmarshalJSON parses a JSON number into cents without going through
// float64. Fractions beyond two digits round half-up, matching
// ParseDecimalToCents.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" {
		return ErrInvalidAmount
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 || parts[0] == "" {
		return ErrInvalidAmount
	}
	for _, part := range parts {
		for _, r := range part {
			if !unicode.IsDigit(r) {
				return ErrInvalidAmount
			}
		}
	}
	iv, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return ErrInvalidAmount
	}
	var fracCents int64
	if len(parts) == 2 && len(parts[1]) > 0 {
		frac := parts[1]
		fracCents = int64(frac[0]-'0') * 10
		if len(frac) > 1 {
			fracCents += int64(frac[1] - '0')
			if len(frac) > 2 && frac[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	m.Cents = cents
	return nil
}

// Format renders the amount for display: fixed currency symbol, grouped
// thousands in the Indian style (1,50,000.00), two fraction digits, and a
// minus prefix for negative values.
func (m Money) Format(symbol string) string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := strconv.FormatInt(cents/100, 10)
	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	sb.WriteString(symbol)
	sb.WriteString(groupIndian(whole))
	sb.WriteByte('.')
	rem := cents % 100
	if rem < 10 {
		sb.WriteByte('0')
	}
	sb.WriteString(strconv.FormatInt(rem, 10))
	return sb.String()
}

// groupIndian inserts separators Indian-style: the last three digits form
// one group, everything before that groups by two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}
