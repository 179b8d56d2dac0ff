// Package ledger maintains the per-product stock ledger: opening stock,
// receipts, transfers, sales and closing stock per line, with sales and
// amount derived under a non-negativity invariant. Confirmed matcher batches
// add receipts, operators edit stock fields directly, and a period commit
// archives an immutable snapshot before rolling lines into the next period.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrLineNotFound is returned when an edit targets a line the ledger does
// not hold.
var ErrLineNotFound = errors.New("ledger: line not found")

// Receipt is one confirmed batch candidate to commit. The caller maps
// matcher candidates into this shape.
type Receipt struct {
	Particulars string
	Category    string
	Rate        float64
	Size        string
	BrandNumber string
	IssuePrice  float64
	Quantity    int
}

// Ledger is the in-memory working state for one shop, persisted through a
// Store. Edits apply optimistically in memory and reach the store through a
// debounced write; the in-memory state stays authoritative regardless of
// write acknowledgement order.
type Ledger struct {
	store    Store
	scopeKey string
	logger   *slog.Logger
	writer   *DebouncedWriter

	mu        sync.Mutex
	lines     []Line
	balance   Balance
	workingID uuid.UUID
}

// New creates a ledger for the given scope. Edits persist after the quiet
// period of inactivity.
func New(store Store, scopeKey string, quiet time.Duration, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Ledger{store: store, scopeKey: scopeKey, logger: logger}
	l.writer = NewDebouncedWriter(quiet, l.persistWorking, logger)
	return l
}

// Load adopts the latest stored record as the working state. A missing
// record leaves the ledger empty; a snapshot record seeds a fresh working
// copy while keeping its lines.
func (l *Ledger) Load(ctx context.Context) error {
	rec, err := l.store.Latest(ctx, l.scopeKey)
	if errors.Is(err, ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	// Persisted lines keep their derived fields as stored; re-deriving here
	// would turn a post-rollover sales of zero back into the opening stock.
	l.lines = make([]Line, len(rec.Lines))
	copy(l.lines, rec.Lines)
	l.balance = rec.Balance
	if rec.Snapshot {
		l.workingID = uuid.Nil
	} else {
		l.workingID = rec.ID
	}
	l.refreshTotalSale()
	return nil
}

// Lines returns a copy of the current ledger lines.
func (l *Ledger) Lines() []Line {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

// Balance returns the current cash balance chain.
func (l *Ledger) Balance() Balance {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// CommitBatch applies a confirmed batch: receipts add to the existing line
// with the same particulars and rate, or open a fresh line. Derived fields
// are recomputed for every touched line.
func (l *Ledger) CommitBatch(receipts []Receipt) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range receipts {
		if ln := l.findLine(r.Particulars, r.Rate); ln != nil {
			ln.Receipts += r.Quantity
			ln.recompute()
			continue
		}
		ln := Line{
			Particulars: r.Particulars,
			Category:    r.Category,
			Rate:        r.Rate,
			Size:        r.Size,
			BrandNumber: r.BrandNumber,
			IssuePrice:  r.IssuePrice,
			Receipts:    r.Quantity,
		}
		ln.recompute()
		l.lines = append(l.lines, ln)
	}

	l.refreshTotalSale()
	l.writer.Enqueue()
}

// edit locates a line and applies one stock-field mutation under the
// invariant checks; rejected edits leave the line untouched.
func (l *Ledger) edit(particulars string, rate float64, apply func(*Line) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ln := l.findLine(particulars, rate)
	if ln == nil {
		return ErrLineNotFound
	}
	if err := apply(ln); err != nil {
		return err
	}
	l.refreshTotalSale()
	l.writer.Enqueue()
	return nil
}

// SetClosingStock edits a line's closing stock.
func (l *Ledger) SetClosingStock(particulars string, rate float64, v int) error {
	return l.edit(particulars, rate, func(ln *Line) error { return ln.SetClosingStock(v) })
}

// SetTranIn edits a line's transfer-in.
func (l *Ledger) SetTranIn(particulars string, rate float64, v int) error {
	return l.edit(particulars, rate, func(ln *Line) error { return ln.SetTranIn(v) })
}

// SetTranOut edits a line's transfer-out.
func (l *Ledger) SetTranOut(particulars string, rate float64, v int) error {
	return l.edit(particulars, rate, func(ln *Line) error { return ln.SetTranOut(v) })
}

// SetOpeningStock edits a line's opening stock.
func (l *Ledger) SetOpeningStock(particulars string, rate float64, v int) error {
	return l.edit(particulars, rate, func(ln *Line) error { return ln.SetOpeningStock(v) })
}

// SetReceipts edits a line's receipts.
func (l *Ledger) SetReceipts(particulars string, rate float64, v int) error {
	return l.edit(particulars, rate, func(ln *Line) error { return ln.SetReceipts(v) })
}

// SetOpeningBalance edits the cash chain's opening balance input.
func (l *Ledger) SetOpeningBalance(s string) error { return l.editBalance((*Balance).SetOpeningBalance, s) }

// SetManualAdjustment edits the cash chain's manual adjustment input.
func (l *Ledger) SetManualAdjustment(s string) error {
	return l.editBalance((*Balance).SetManualAdjustment, s)
}

// SetExpenses edits the cash chain's expenses input.
func (l *Ledger) SetExpenses(s string) error { return l.editBalance((*Balance).SetExpenses, s) }

func (l *Ledger) editBalance(set func(*Balance, string) error, s string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := set(&l.balance, s); err != nil {
		return err
	}
	l.writer.Enqueue()
	return nil
}

// CommitPeriod archives the current state as an immutable snapshot, then
// rolls every line into the next period. A store failure returns before any
// in-memory change, so the operator can retry. Rollover is asymmetric:
// counted lines carry closing stock forward as opening stock with flows
// zeroed; uncounted lines still roll their receipts into opening stock when
// anything in the batch was counted, so unscanned stock is not lost.
func (l *Ledger) CommitPeriod(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := Record{
		ID:        uuid.New(),
		Lines:     make([]Line, len(l.lines)),
		Balance:   l.balance,
		Snapshot:  true,
		CreatedAt: time.Now().UTC(),
	}
	copy(snap.Lines, l.lines)

	if err := l.store.Append(ctx, l.scopeKey, snap); err != nil {
		return fmt.Errorf("failed to archive ledger snapshot: %w", err)
	}

	anyClosing := false
	for i := range l.lines {
		if l.lines[i].ClosingStock > 0 {
			anyClosing = true
			break
		}
	}

	for i := range l.lines {
		ln := &l.lines[i]
		switch {
		case ln.ClosingStock > 0:
			ln.OpeningStock = ln.ClosingStock
			ln.Receipts, ln.TranIn, ln.TranOut, ln.ClosingStock = 0, 0, 0, 0
			ln.resetSales()
		case anyClosing:
			ln.OpeningStock += ln.Receipts
			ln.Receipts, ln.TranIn, ln.TranOut = 0, 0, 0
			ln.resetSales()
		}
	}

	l.workingID = uuid.Nil
	l.refreshTotalSale()
	l.writer.Enqueue()
	return nil
}

// History returns archived records, newest first.
func (l *Ledger) History(ctx context.Context) ([]Record, error) {
	return l.store.History(ctx, l.scopeKey)
}

// Flush persists any pending debounced write immediately.
func (l *Ledger) Flush(ctx context.Context) error { return l.writer.Flush(ctx) }

// Cancel discards any pending debounced write.
func (l *Ledger) Cancel() { l.writer.Cancel() }

func (l *Ledger) findLine(particulars string, rate float64) *Line {
	for i := range l.lines {
		if l.lines[i].Particulars == particulars && l.lines[i].Rate == rate {
			return &l.lines[i]
		}
	}
	return nil
}

// refreshTotalSale recomputes the cash chain's sales input from the lines.
// Callers hold l.mu.
func (l *Ledger) refreshTotalSale() {
	total := decimal.Zero
	for i := range l.lines {
		sale := decimal.NewFromInt(int64(l.lines[i].Sales)).Mul(decimal.NewFromFloat(l.lines[i].Rate))
		total = total.Add(sale)
	}
	l.balance.SetTotalSale(total)
}

// persistWorking writes the working state: the first write appends a working
// record, later writes patch it in place.
func (l *Ledger) persistWorking(ctx context.Context) error {
	l.mu.Lock()
	lines := make([]Line, len(l.lines))
	copy(lines, l.lines)
	balance := l.balance
	id := l.workingID
	l.mu.Unlock()

	if id == uuid.Nil {
		rec := Record{
			ID:        uuid.New(),
			Lines:     lines,
			Balance:   balance,
			CreatedAt: time.Now().UTC(),
		}
		if err := l.store.Append(ctx, l.scopeKey, rec); err != nil {
			return fmt.Errorf("failed to persist working ledger: %w", err)
		}
		l.mu.Lock()
		l.workingID = rec.ID
		l.mu.Unlock()
		return nil
	}

	err := l.store.Patch(ctx, l.scopeKey, id, RecordPatch{Lines: lines, Balance: &balance})
	if err != nil {
		return fmt.Errorf("failed to persist working ledger: %w", err)
	}
	return nil
}
