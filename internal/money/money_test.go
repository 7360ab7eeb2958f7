package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseMinor(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
	}{
		{"123.45", 12345},
		{"0.5", 50},
		{"7", 700},
		{"-12.30", -1230},
		{"+1.01", 101},
		{".25", 25},
	}
	for _, c := range cases {
		got, err := ParseMinor(c.raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", c.raw, err)
		}
		if got != c.want {
			t.Fatalf("parse %q: expected %d, got %d", c.raw, c.want, got)
		}
	}
}

func TestParseMinorRejects(t *testing.T) {
	if _, err := ParseMinor("1.234"); err != ErrTooManyDecimals {
		t.Fatalf("expected ErrTooManyDecimals, got %v", err)
	}
	for _, raw := range []string{"", "abc", "1.2x", "1,50"} {
		if _, err := ParseMinor(raw); err != ErrInvalidAmount {
			t.Fatalf("expected ErrInvalidAmount for %q, got %v", raw, err)
		}
	}
}

func TestFormatMinor(t *testing.T) {
	if got := FormatMinor(12345); got != "123.45" {
		t.Fatalf("unexpected format: %s", got)
	}
	if got := FormatMinor(-5); got != "-0.05" {
		t.Fatalf("unexpected format: %s", got)
	}
}

func TestApplyPercent(t *testing.T) {
	pct, _ := decimal.NewFromString("0.30")
	if got := ApplyPercent(250000, pct); got != 75000 {
		t.Fatalf("expected 75000, got %d", got)
	}
}
