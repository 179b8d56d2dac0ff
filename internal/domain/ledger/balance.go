package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Balance is the running cash chain kept alongside the stock ledger:
// totalSale + openingBalance + manualAdjustment - expenses = closingBalance.
// It is independent of per-line stock arithmetic and recomputed whenever any
// input changes. Decimal arithmetic throughout; no rounding is applied beyond
// what the caller's input strings carry.
type Balance struct {
	TotalSale        decimal.Decimal `json:"total_sale"`
	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	ManualAdjustment decimal.Decimal `json:"manual_adjustment"`
	Expenses         decimal.Decimal `json:"expenses"`
	ClosingBalance   decimal.Decimal `json:"closing_balance"`
}

func (b *Balance) recompute() {
	b.ClosingBalance = b.TotalSale.
		Add(b.OpeningBalance).
		Add(b.ManualAdjustment).
		Sub(b.Expenses)
}

// SetTotalSale replaces the sales input and recomputes the closing balance.
func (b *Balance) SetTotalSale(v decimal.Decimal) {
	b.TotalSale = v
	b.recompute()
}

// SetOpeningBalance parses and applies the opening balance input.
func (b *Balance) SetOpeningBalance(s string) error {
	return b.setFromString(&b.OpeningBalance, "opening balance", s)
}

// SetManualAdjustment parses and applies the manual adjustment input.
func (b *Balance) SetManualAdjustment(s string) error {
	return b.setFromString(&b.ManualAdjustment, "manual adjustment", s)
}

// SetExpenses parses and applies the expenses input.
func (b *Balance) SetExpenses(s string) error {
	return b.setFromString(&b.Expenses, "expenses", s)
}

func (b *Balance) setFromString(dst *decimal.Decimal, field, s string) error {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	*dst = v
	b.recompute()
	return nil
}
