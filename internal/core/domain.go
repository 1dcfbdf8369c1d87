package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	TypeIncome  TxnType = "income"
	TypeExpense TxnType = "expense"
)

type (
	// TxnType labels the direction of a transaction. It is always derived
	// from the sign of the amount, never stored on its own.
	TxnType string

	Date struct {
		time.Time
	}

	// Transaction is a single dated, categorized, signed monetary record.
	// Amount.Cents > 0 means income, < 0 means expense; zero is invalid.
	Transaction struct {
		ID          int64
		Description string
		Amount      Money
		Date        Date
		Category    Category
	}
)

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrNotFound         = errors.New("transaction not found")
)

const dateLayout = "2006-01-02"

// ParseDate parses a calendar date in "YYYY-MM-DD" form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String returns the date in "YYYY-MM-DD" form.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// YearMonth returns the "YYYY-MM" prefix used for month filtering.
func (d Date) YearMonth() string {
	return d.Format("2006-01")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Type derives the income/expense label from the sign of the amount.
func (t Transaction) Type() TxnType {
	if t.Amount.Cents > 0 {
		return TypeIncome
	}
	return TypeExpense
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if t.Amount.Cents == 0 {
		return ErrInvalidAmount
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if !t.Category.Valid() {
		return ErrUnknownCategory
	}
	return nil
}

// transactionJSON is the persisted wire form. The type field is emitted for
// compatibility but the sign of amount remains the source of truth on load.
type transactionJSON struct {
	ID          int64    `json:"id"`
	Description string   `json:"description"`
	Amount      Money    `json:"amount"`
	Date        Date     `json:"date"`
	Category    Category `json:"category"`
	Type        TxnType  `json:"type"`
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount,
		Date:        t.Date,
		Category:    t.Category,
		Type:        t.Type(),
	})
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw transactionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.ID = raw.ID
	t.Description = raw.Description
	t.Amount = raw.Amount
	t.Date = raw.Date
	t.Category = raw.Category
	return nil
}
