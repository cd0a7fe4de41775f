package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"4.50", "4.5", true},
		{"1,23", "1.23", true},
		{"0.001", "0.001", true}, // kept exact
		{" 2.50 ", "2.5", true},
		{"$3000", "3000", true},
		{"1 000", "1000", true},
		{"0", "0", true},
		{".5", "0.5", true},
		{"-1", "", false},
		{"+1", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{".", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestParseAmountEmptyIsIncomplete(t *testing.T) {
	if _, err := ParseAmount("  "); err != ErrIncomplete {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":        "$0.00",
		"4.5":      "$4.50",
		"2995.5":   "$2,995.50",
		"1234567":  "$1,234,567.00",
		"-4.5":     "-$4.50",
		"0.005":    "$0.01",
		"999.999":  "$1,000.00",
		"100000.1": "$100,000.10",
	}
	for in, want := range cases {
		if got := FormatMoney(decimal.RequireFromString(in)); got != want {
			t.Fatalf("FormatMoney(%s) = %s, want %s", in, got, want)
		}
	}
}
