package decimal

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the ISO code used by Format.
const DefaultCurrency = money.EUR

// Money is a euro amount held at full decimal precision and rounded only
// for display.
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// Cents returns the amount in minor units, rounded half away from zero.
func (m Money) Cents() int64 {
	return m.Decimal.Round(2).Shift(2).IntPart()
}

// Format formats the amount in euros with grouping and currency symbol.
func (m Money) Format() string {
	return m.FormatIn(DefaultCurrency)
}

// FormatIn formats the amount using the display rules of an ISO currency code.
func (m Money) FormatIn(code string) string {
	return money.New(m.Cents(), code).Display()
}
