package core

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// DefaultCategory is assigned to every new transaction.
const DefaultCategory = "General"

// DateLayout is the persisted calendar date format.
const DateLayout = "2006-01-02"

// Amounts are persisted as JSON numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type (
	TransactionType string

	Theme string

	Transaction struct {
		ID       string          `json:"id"`
		Name     string          `json:"name"`
		Amount   decimal.Decimal `json:"amount"`
		Date     string          `json:"date"` // YYYY-MM-DD
		Category string          `json:"category"`
		Type     TransactionType `json:"type"`
	}

	// NewTransaction is the user-supplied part of a transaction.
	NewTransaction struct {
		Name   string
		Amount decimal.Decimal
		Date   string
		Type   TransactionType
	}
)

var (
	ErrIncomplete    = errors.New("name, amount and date are required")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidDate   = errors.New("invalid date")
	ErrNameTooLong   = errors.New("name too long (max 200 characters)")
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// ParseTransactionType accepts "income" or "expense" in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrInvalidType
	}
	return t, nil
}

// ParseTheme returns the theme and whether s named a known one.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	}
	return "", false
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// ParseDate parses a YYYY-MM-DD calendar date. Only the date part of an
// ISO timestamp is considered, so "2024-03-05T00:00:00Z" is accepted too.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) && s[len(DateLayout)] == 'T' {
		s = s[:len(DateLayout)]
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ParsedDate returns the transaction's calendar date.
func (t Transaction) ParsedDate() (time.Time, bool) {
	return ParseDate(t.Date)
}

// Signed returns the amount with the sign implied by the type.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

func (n NewTransaction) Validate() error {
	if strings.TrimSpace(n.Name) == "" || strings.TrimSpace(n.Date) == "" {
		return ErrIncomplete
	}
	if len(n.Name) > 200 {
		return ErrNameTooLong
	}
	if n.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if _, ok := ParseDate(n.Date); !ok {
		return ErrInvalidDate
	}
	if !n.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

// NewestFirst returns a copy of txs sorted by date, most recent first.
// Ties keep their insertion order; unparseable dates sort last.
func NewestFirst(txs []Transaction) []Transaction {
	out := append([]Transaction(nil), txs...)
	sort.SliceStable(out, func(i, j int) bool {
		di, oki := out[i].ParsedDate()
		dj, okj := out[j].ParsedDate()
		if oki != okj {
			return oki
		}
		return di.After(dj)
	})
	return out
}
