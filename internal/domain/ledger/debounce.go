package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DebouncedWriter coalesces rapid successive edits into a single persisted
// write after a quiet period. Flush persists immediately and Cancel discards
// the pending write; callers invoke one of the two when leaving the editing
// context, so nothing fires after teardown.
type DebouncedWriter struct {
	quiet   time.Duration
	persist func(ctx context.Context) error
	logger  *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
}

// NewDebouncedWriter creates a writer that calls persist once per quiet
// period of inactivity.
func NewDebouncedWriter(quiet time.Duration, persist func(ctx context.Context) error, logger *slog.Logger) *DebouncedWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DebouncedWriter{quiet: quiet, persist: persist, logger: logger}
}

// Enqueue notes that state changed and (re)starts the quiet-period timer.
func (w *DebouncedWriter) Enqueue() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.quiet, w.fire)
}

func (w *DebouncedWriter) fire() {
	w.mu.Lock()
	if !w.pending {
		w.mu.Unlock()
		return
	}
	w.pending = false
	w.mu.Unlock()

	if err := w.persist(context.Background()); err != nil {
		w.logger.Error("debounced ledger persist failed", slog.Any("error", err))
	}
}

// Flush persists any pending change immediately and stops the timer. It is a
// no-op when nothing is pending.
func (w *DebouncedWriter) Flush(ctx context.Context) error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	pending := w.pending
	w.pending = false
	w.mu.Unlock()

	if !pending {
		return nil
	}
	return w.persist(ctx)
}

// Cancel discards any pending change without persisting.
func (w *DebouncedWriter) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pending = false
}
