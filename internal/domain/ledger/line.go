package ledger

import (
	"fmt"

	"github.com/manoj7569971307/wine-sub000/pkg/money"
)

// Line is one product's stock row for the current period. Identity within a
// ledger is the pair (Particulars, Rate). Sales and Amount are derived, never
// set directly.
type Line struct {
	Particulars  string  `json:"particulars"`
	Category     string  `json:"category"`
	Rate         float64 `json:"rate"`
	Size         string  `json:"size"`
	BrandNumber  string  `json:"brand_number"`
	IssuePrice   float64 `json:"issue_price"`
	OpeningStock int     `json:"opening_stock"`
	Receipts     int     `json:"receipts"`
	TranIn       int     `json:"tran_in"`
	TranOut      int     `json:"tran_out"`
	ClosingStock int     `json:"closing_stock"`
	Sales        int     `json:"sales"`
	Amount       string  `json:"amount"`
}

// InvalidEditError reports a rejected ledger edit. The line is left exactly
// as it was.
type InvalidEditError struct {
	Field  string
	Value  int
	Reason string
}

func (e *InvalidEditError) Error() string {
	return fmt.Sprintf("invalid %s edit (%d): %s", e.Field, e.Value, e.Reason)
}

// resetSales zeroes the derived fields for a freshly rolled-over period.
// Sales is a flow field: the rollover resets it rather than re-deriving it,
// or the carried opening stock would read as a phantom sale.
func (l *Line) resetSales() {
	l.Sales = 0
	l.Amount = money.Format(0)
}

// recompute derives sales and amount from the stock fields. Sales is clamped
// at zero; validation rejects edits that would need the clamp, so a clamped
// value only appears for lines built from raw store data.
func (l *Line) recompute() {
	sales := l.OpeningStock + l.Receipts + l.TranIn - l.ClosingStock - l.TranOut
	if sales < 0 {
		sales = 0
	}
	l.Sales = sales
	l.Amount = money.Format(float64(l.Sales) * l.Rate)
}

// setField validates and applies a single stock-field edit. An edit is
// rejected when the value is negative, when it would drive sales negative,
// or when closing stock or transfer-out would exceed the stock available to
// them.
func (l *Line) setField(field string, dst *int, value int) error {
	if value < 0 {
		return &InvalidEditError{Field: field, Value: value, Reason: "negative value"}
	}

	prev := *dst
	*dst = value

	if l.OpeningStock+l.Receipts+l.TranIn-l.ClosingStock-l.TranOut < 0 {
		*dst = prev
		return &InvalidEditError{Field: field, Value: value, Reason: "exceeds available stock"}
	}
	if l.TranOut > l.OpeningStock+l.Receipts+l.TranIn {
		*dst = prev
		return &InvalidEditError{Field: field, Value: value, Reason: "transfer out exceeds available stock"}
	}

	l.recompute()
	return nil
}

// SetOpeningStock edits the opening stock field.
func (l *Line) SetOpeningStock(v int) error { return l.setField("opening stock", &l.OpeningStock, v) }

// SetReceipts edits the receipts field.
func (l *Line) SetReceipts(v int) error { return l.setField("receipts", &l.Receipts, v) }

// SetTranIn edits the transfer-in field.
func (l *Line) SetTranIn(v int) error { return l.setField("transfer in", &l.TranIn, v) }

// SetTranOut edits the transfer-out field.
func (l *Line) SetTranOut(v int) error { return l.setField("transfer out", &l.TranOut, v) }

// SetClosingStock edits the closing stock field.
func (l *Line) SetClosingStock(v int) error { return l.setField("closing stock", &l.ClosingStock, v) }
