package decimal

import (
	"strings"
	"testing"
	"unicode"

	stddec "github.com/shopspring/decimal"
)

func TestNewMoneyFromDecimal(t *testing.T) {
	d := stddec.RequireFromString("10.125")
	m := NewMoneyFromDecimal(d)
	if !m.Decimal.Equal(d) {
		t.Fatalf("NewMoneyFromDecimal mismatch: got %s want %s", m.Decimal, d)
	}
}

func TestCents(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
	}{
		{"2.344", 234},
		{"2.345", 235},
		{"14925.4321984469", 1492543},
		{"-0.005", -1},
	}
	for _, c := range cases {
		m := NewMoneyFromDecimal(stddec.RequireFromString(c.in))
		if got := m.Cents(); got != c.cents {
			t.Fatalf("cents(%s) got %d want %d", c.in, got, c.cents)
		}
	}
}

func TestFormat(t *testing.T) {
	m := NewMoneyFromDecimal(stddec.RequireFromString("1234.5"))
	got := m.Format()
	if !strings.Contains(got, "€") {
		t.Fatalf("Format should carry the euro sign, got %s", got)
	}
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, got)
	if digits != "123450" {
		t.Fatalf("Format digits got %s from %s", digits, got)
	}

	if got := m.FormatIn("USD"); !strings.Contains(got, "$") {
		t.Fatalf("FormatIn(USD) got %s", got)
	}
}
