package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MonthPointer is the (year, month) currently displayed.
type MonthPointer struct {
	Year  int
	Month int // 1-12
}

// Summary holds the derived totals of a set of transactions.
type Summary struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// MonthOf returns the pointer for the month containing t.
func MonthOf(t time.Time) MonthPointer {
	return MonthPointer{Year: t.Year(), Month: int(t.Month())}
}

// NewMonthPointer normalizes out-of-range months, so month 13 of 2024 is
// January 2025 and month 0 is December of the previous year.
func NewMonthPointer(year, month int) MonthPointer {
	return MonthOf(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC))
}

func (m MonthPointer) Add(offset int) MonthPointer {
	return NewMonthPointer(m.Year, m.Month+offset)
}

func (m MonthPointer) Next() MonthPointer { return m.Add(1) }

func (m MonthPointer) Prev() MonthPointer { return m.Add(-1) }

// First returns midnight UTC of the first day of the month.
func (m MonthPointer) First() time.Time {
	return time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC)
}

// Days returns the number of days in the month.
func (m MonthPointer) Days() int {
	return m.First().AddDate(0, 1, -1).Day()
}

// Contains reports whether d falls in the month.
func (m MonthPointer) Contains(d time.Time) bool {
	return d.Year() == m.Year && int(d.Month()) == m.Month
}

// Label renders the pointer as "March 2024".
func (m MonthPointer) Label() string {
	return fmt.Sprintf("%s %d", time.Month(m.Month), m.Year)
}

// Key renders the pointer as "2024-03".
func (m MonthPointer) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// FilterByMonth returns the transactions dated in the given month, in their
// original order. Transactions whose date cannot be parsed never match.
func FilterByMonth(txs []Transaction, year, month int) []Transaction {
	m := MonthPointer{Year: year, Month: month}
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		d, ok := t.ParsedDate()
		if !ok || !m.Contains(d) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Summarize reduces txs into income, expense and balance totals.
func Summarize(txs []Transaction) Summary {
	s := Summary{Income: decimal.Zero, Expenses: decimal.Zero}
	for _, t := range txs {
		switch t.Type {
		case Income:
			s.Income = s.Income.Add(t.Amount)
		case Expense:
			s.Expenses = s.Expenses.Add(t.Amount)
		}
	}
	s.Balance = s.Income.Sub(s.Expenses)
	return s
}

// Add returns the pairwise sum of two summaries.
func (s Summary) Add(o Summary) Summary {
	return Summary{
		Income:   s.Income.Add(o.Income),
		Expenses: s.Expenses.Add(o.Expenses),
		Balance:  s.Balance.Add(o.Balance),
	}
}

// ExpenseShare returns the expense percentage of all money moved, 0-100,
// rounded to a whole number. Zero when there is no data.
func (s Summary) ExpenseShare() int {
	total := s.Income.Add(s.Expenses)
	if total.IsZero() {
		return 0
	}
	return int(s.Expenses.Mul(decimal.NewFromInt(100)).Div(total).Round(0).IntPart())
}
