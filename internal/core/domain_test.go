package core

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-03-05", true},
		{" 2024-12-31 ", true},
		{"2024-03-05T10:00:00.000Z", true},
		{"2024-02-30", false},
		{"05/03/2024", false},
		{"", false},
		{"garbage", false},
	}
	for _, tc := range cases {
		_, ok := ParseDate(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseDate(%q) ok=%v, want %v", tc.in, ok, tc.ok)
		}
	}
}

func TestNewTransactionValidate(t *testing.T) {
	good := NewTransaction{Name: "Coffee", Amount: decimal.RequireFromString("4.50"), Date: "2024-03-05", Type: Expense}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	zero := good
	zero.Amount = decimal.Zero
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero amount should be accepted, got %v", err)
	}

	bads := []struct {
		tx   NewTransaction
		want error
	}{
		{NewTransaction{Name: "", Amount: decimal.NewFromInt(1), Date: "2024-03-05", Type: Expense}, ErrIncomplete},
		{NewTransaction{Name: "a", Amount: decimal.NewFromInt(1), Date: "", Type: Expense}, ErrIncomplete},
		{NewTransaction{Name: "a", Amount: decimal.NewFromInt(-1), Date: "2024-03-05", Type: Expense}, ErrInvalidAmount},
		{NewTransaction{Name: "a", Amount: decimal.NewFromInt(1), Date: "2024-13-01", Type: Expense}, ErrInvalidDate},
		{NewTransaction{Name: "a", Amount: decimal.NewFromInt(1), Date: "2024-03-05", Type: "transfer"}, ErrInvalidType},
	}
	for i, tc := range bads {
		if err := tc.tx.Validate(); err != tc.want {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestParseTransactionType(t *testing.T) {
	if tt, err := ParseTransactionType(" Income "); err != nil || tt != Income {
		t.Fatalf("unexpected %q %v", tt, err)
	}
	if _, err := ParseTransactionType("refund"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestThemeParseAndToggle(t *testing.T) {
	if th, ok := ParseTheme("DARK"); !ok || th != Dark {
		t.Fatalf("unexpected %q %v", th, ok)
	}
	if _, ok := ParseTheme("sepia"); ok {
		t.Fatalf("sepia is not a theme")
	}
	if Light.Toggle() != Dark || Dark.Toggle() != Light {
		t.Fatalf("toggle broken")
	}
}

func TestTransactionJSONAcceptsNumericAmounts(t *testing.T) {
	raw := `[{"id":"a","name":"Coffee","amount":4.5,"date":"2024-03-05","category":"General","type":"expense"},
	         {"id":"b","name":"Salary","amount":"3000","date":"2024-03-01","category":"General","type":"income"}]`
	var txs []Transaction
	if err := json.Unmarshal([]byte(raw), &txs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !txs[0].Amount.Equal(decimal.RequireFromString("4.50")) {
		t.Fatalf("amount = %s", txs[0].Amount)
	}
	if txs[1].Type != Income || !txs[1].Amount.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("unexpected %+v", txs[1])
	}
}

func TestTransactionJSONWritesNumericAmounts(t *testing.T) {
	tx := Transaction{
		ID: "a", Name: "Coffee", Amount: decimal.RequireFromString("4.50"),
		Date: "2024-03-05", Category: DefaultCategory, Type: Expense,
	}
	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"id":"a","name":"Coffee","amount":4.5,"date":"2024-03-05","category":"General","type":"expense"}`
	if string(data) != want {
		t.Fatalf("Marshal() = %s, want %s", data, want)
	}
}

func TestNewestFirst(t *testing.T) {
	txs := []Transaction{
		{ID: "old", Date: "2024-03-01"},
		{ID: "bad", Date: "nope"},
		{ID: "new", Date: "2024-03-20"},
		{ID: "mid", Date: "2024-03-10"},
	}
	got := NewestFirst(txs)
	want := []string{"new", "mid", "old", "bad"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d = %s, want %s", i, got[i].ID, id)
		}
	}
	if txs[0].ID != "old" {
		t.Fatalf("input must not be reordered")
	}
}
