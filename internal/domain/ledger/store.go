package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrRecordNotFound is returned by Latest and Patch when the scope has no
// matching record.
var ErrRecordNotFound = errors.New("ledger: record not found")

// Record is one persisted ledger state: the full set of lines plus the cash
// balance chain. Snapshot records are immutable history entries; the working
// record is patched in place as edits settle.
type Record struct {
	ID        uuid.UUID `json:"id"`
	Lines     []Line    `json:"lines"`
	Balance   Balance   `json:"balance"`
	Snapshot  bool      `json:"snapshot"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordPatch is a partial update for an existing record. Nil fields are
// left untouched.
type RecordPatch struct {
	Lines   []Line   `json:"lines,omitempty"`
	Balance *Balance `json:"balance,omitempty"`
}

// Store is the persistence collaborator. The scope key encodes the owning
// shop and is opaque here; history is ordered newest-first.
type Store interface {
	Append(ctx context.Context, scopeKey string, rec Record) error
	Latest(ctx context.Context, scopeKey string) (*Record, error)
	History(ctx context.Context, scopeKey string) ([]Record, error)
	Patch(ctx context.Context, scopeKey string, id uuid.UUID, patch RecordPatch) error
}

// MemoryStore is an in-memory Store used in tests and for single-run usage
// without a database.
type MemoryStore struct {
	records map[string][]Record
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]Record)}
}

func (s *MemoryStore) Append(_ context.Context, scopeKey string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[scopeKey] = append(s.records[scopeKey], rec)
	return nil
}

func (s *MemoryStore) Latest(_ context.Context, scopeKey string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.records[scopeKey]
	if len(recs) == 0 {
		return nil, ErrRecordNotFound
	}
	rec := recs[len(recs)-1]
	return &rec, nil
}

func (s *MemoryStore) History(_ context.Context, scopeKey string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.records[scopeKey]
	out := make([]Record, len(recs))
	for i, rec := range recs {
		out[len(recs)-1-i] = rec
	}
	return out, nil
}

func (s *MemoryStore) Patch(_ context.Context, scopeKey string, id uuid.UUID, patch RecordPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.records[scopeKey]
	for i := range recs {
		if recs[i].ID != id {
			continue
		}
		if patch.Lines != nil {
			recs[i].Lines = patch.Lines
		}
		if patch.Balance != nil {
			recs[i].Balance = *patch.Balance
		}
		return nil
	}
	return ErrRecordNotFound
}
