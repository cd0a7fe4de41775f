package http

import (
	"strings"
	"time"

	"wealthway/internal/core"
	"wealthway/internal/insights"
)

var weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type transactionView struct {
	ID       string
	Name     string
	Date     string
	Category string
	Amount   string
	Income   bool
}

type dayView struct {
	Day         int
	Income      string
	Expenses    string
	HasIncome   bool
	HasExpenses bool
	IsToday     bool
	Count       int
}

type monthView struct {
	Year  int
	Month int
	Label string
	Key   string
	Prev  core.MonthPointer
	Next  core.MonthPointer

	Income       string
	Expenses     string
	Balance      string
	Negative     bool
	ExpenseShare int
	HasData      bool

	Weekdays     []string
	Weeks        [][]*dayView
	Transactions []transactionView
}

type insightView struct {
	Year       int
	Month      int
	Label      string
	Paragraphs []string
	Loading    bool
	Ready      bool
}

type pageView struct {
	Theme   string
	Dark    bool
	Today   string
	Month   monthView
	Insight insightView
}

func newMonthView(txs []core.Transaction, m core.MonthPointer, today time.Time) monthView {
	cal := core.BuildCalendar(txs, m, today)
	sum := core.Summarize(txs)

	v := monthView{
		Year:         m.Year,
		Month:        m.Month,
		Label:        m.Label(),
		Key:          m.Key(),
		Prev:         m.Prev(),
		Next:         m.Next(),
		Income:       core.FormatMoney(sum.Income),
		Expenses:     core.FormatMoney(sum.Expenses),
		Balance:      core.FormatMoney(sum.Balance),
		Negative:     sum.Balance.IsNegative(),
		ExpenseShare: sum.ExpenseShare(),
		HasData:      !sum.Income.Add(sum.Expenses).IsZero(),
		Weekdays:     weekdays,
	}

	for _, week := range cal.Weeks() {
		row := make([]*dayView, len(week))
		for i, d := range week {
			if d == nil {
				continue
			}
			row[i] = &dayView{
				Day:         d.Day,
				Income:      core.FormatMoney(d.Income),
				Expenses:    core.FormatMoney(d.Expenses),
				HasIncome:   d.Income.IsPositive(),
				HasExpenses: d.Expenses.IsPositive(),
				IsToday:     d.IsToday,
				Count:       len(d.Transactions),
			}
		}
		v.Weeks = append(v.Weeks, row)
	}

	for _, t := range core.NewestFirst(txs) {
		v.Transactions = append(v.Transactions, transactionView{
			ID:       t.ID,
			Name:     t.Name,
			Date:     displayDate(t),
			Category: t.Category,
			Amount:   core.FormatMoney(t.Amount),
			Income:   t.Type == core.Income,
		})
	}
	return v
}

func displayDate(t core.Transaction) string {
	d, ok := t.ParsedDate()
	if !ok {
		return t.Date
	}
	return d.Format("Jan 2, 2006")
}

func newInsightView(st insights.State) insightView {
	v := insightView{
		Year:    st.Month.Year,
		Month:   st.Month.Month,
		Label:   st.Month.Label(),
		Loading: st.Loading,
		Ready:   st.Ready,
	}
	for _, line := range strings.Split(st.Text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			v.Paragraphs = append(v.Paragraphs, line)
		}
	}
	return v
}
