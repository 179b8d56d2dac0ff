package scan

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DedupStore remembers which document identifiers a shop has already
// processed. Remember is atomic: it records the identifier and reports
// whether it was already present.
type DedupStore interface {
	Remember(ctx context.Context, scopeKey, identifier string) (seen bool, err error)
}

// MemoryDedupStore is the session-scoped DedupStore.
type MemoryDedupStore struct {
	seen map[string]map[string]bool
	mu   sync.Mutex
}

// NewMemoryDedupStore creates an empty in-memory dedup store.
func NewMemoryDedupStore() *MemoryDedupStore {
	return &MemoryDedupStore{seen: make(map[string]map[string]bool)}
}

func (s *MemoryDedupStore) Remember(_ context.Context, scopeKey, identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scope := s.seen[scopeKey]
	if scope == nil {
		scope = make(map[string]bool)
		s.seen[scopeKey] = scope
	}
	if scope[identifier] {
		return true, nil
	}
	scope[identifier] = true
	return false, nil
}

// PgxExecutor is the pool subset the postgres dedup store needs.
type PgxExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresDedupStore persists seen identifiers, so duplicate rejection
// survives restarts.
type PostgresDedupStore struct {
	pool PgxExecutor
}

// NewPostgresDedupStore creates a dedup store over the given pool.
func NewPostgresDedupStore(pool PgxExecutor) *PostgresDedupStore {
	return &PostgresDedupStore{pool: pool}
}

func (s *PostgresDedupStore) Remember(ctx context.Context, scopeKey, identifier string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO seen_documents (scope_key, identifier, seen_at) VALUES ($1, $2, now())
		 ON CONFLICT (scope_key, identifier) DO NOTHING`,
		scopeKey, identifier)
	if err != nil {
		return false, fmt.Errorf("failed to record document identifier: %w", err)
	}
	return tag.RowsAffected() == 0, nil
}
