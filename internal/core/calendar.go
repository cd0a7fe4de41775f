package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Day          int
	Transactions []Transaction
	Income       decimal.Decimal
	Expenses     decimal.Decimal
	IsToday      bool
}

// Calendar is a month laid out for display. Offset is the number of blank
// cells before day 1 in a Sunday-first week.
type Calendar struct {
	Month  MonthPointer
	Offset int
	Days   []CalendarDay
}

// BuildCalendar bins the transactions of a month by day. Transactions outside
// the month or with unparseable dates are ignored. today only drives the
// IsToday flag.
func BuildCalendar(txs []Transaction, month MonthPointer, today time.Time) Calendar {
	n := month.Days()
	cal := Calendar{
		Month:  month,
		Offset: int(month.First().Weekday()),
		Days:   make([]CalendarDay, n),
	}
	for i := range cal.Days {
		cal.Days[i] = CalendarDay{Day: i + 1, Income: decimal.Zero, Expenses: decimal.Zero}
	}
	if month.Contains(today) {
		cal.Days[today.Day()-1].IsToday = true
	}

	for _, t := range txs {
		d, ok := t.ParsedDate()
		if !ok || !month.Contains(d) {
			continue
		}
		cell := &cal.Days[d.Day()-1]
		cell.Transactions = append(cell.Transactions, t)
		switch t.Type {
		case Income:
			cell.Income = cell.Income.Add(t.Amount)
		case Expense:
			cell.Expenses = cell.Expenses.Add(t.Amount)
		}
	}
	return cal
}

// Totals sums the per-day income and expenses.
func (c Calendar) Totals() Summary {
	s := Summary{Income: decimal.Zero, Expenses: decimal.Zero}
	for _, d := range c.Days {
		s.Income = s.Income.Add(d.Income)
		s.Expenses = s.Expenses.Add(d.Expenses)
	}
	s.Balance = s.Income.Sub(s.Expenses)
	return s
}

// Weeks splits the grid into rows of seven cells; leading and trailing blank
// cells are nil.
func (c Calendar) Weeks() [][]*CalendarDay {
	cells := make([]*CalendarDay, c.Offset, c.Offset+len(c.Days)+6)
	for i := range c.Days {
		cells = append(cells, &c.Days[i])
	}
	for len(cells)%7 != 0 {
		cells = append(cells, nil)
	}
	weeks := make([][]*CalendarDay, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}
	return weeks
}
