// Package money provides currency-safe rupee formatting using integer paise
// and the Fowler Money pattern.
package money

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// INR is the only currency this system deals in.
const INR = "INR"

// New creates a rupee value from paise (minor units).
func New(amountPaise int64) *money.Money {
	return money.New(amountPaise, INR)
}

// NewFromFloat creates a rupee value from a floating-point amount.
// Conversion to paise goes through decimal to avoid float drift.
func NewFromFloat(amount float64) *money.Money {
	d := decimal.NewFromFloat(amount)
	return NewFromDecimal(d)
}

// NewFromDecimal creates a rupee value from a decimal amount.
func NewFromDecimal(amount decimal.Decimal) *money.Money {
	currency := money.GetCurrency(INR)
	multiplier := decimal.New(1, int32(currency.Fraction))
	paise := amount.Mul(multiplier).Round(0).IntPart()
	return New(paise)
}

// Format renders a float amount with the rupee prefix and two decimals,
// e.g. 1200 -> "₹1,200.00". This is the display format stored on ledger lines.
func Format(amount float64) string {
	return NewFromFloat(amount).Display()
}

// FormatDecimal renders a decimal amount the same way Format does.
func FormatDecimal(amount decimal.Decimal) string {
	return NewFromDecimal(amount).Display()
}
