package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxQuerier is the subset of pgxpool.Pool the store needs; tests substitute
// a pgxmock pool.
type PgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore persists ledger records as jsonb rows in ledger_snapshots.
type PostgresStore struct {
	pool PgxQuerier
}

// NewPostgresStore creates a store over the given pool.
func NewPostgresStore(pool PgxQuerier) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, scopeKey string, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger record: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO ledger_snapshots (id, scope_key, record, created_at) VALUES ($1, $2, $3, $4)`,
		rec.ID, scopeKey, payload, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append ledger record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Latest(ctx context.Context, scopeKey string) (*Record, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT record FROM ledger_snapshots WHERE scope_key = $1 ORDER BY created_at DESC LIMIT 1`,
		scopeKey).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest ledger record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger record: %w", err)
	}
	return &rec, nil
}

func (s *PostgresStore) History(ctx context.Context, scopeKey string) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT record FROM ledger_snapshots WHERE scope_key = $1 ORDER BY created_at DESC`,
		scopeKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger history: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan ledger record: %w", err)
		}
		var rec Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ledger record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger history: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Patch(ctx context.Context, scopeKey string, id uuid.UUID, patch RecordPatch) error {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT record FROM ledger_snapshots WHERE scope_key = $1 AND id = $2`,
		scopeKey, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrRecordNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load ledger record for patch: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return fmt.Errorf("failed to unmarshal ledger record: %w", err)
	}
	if patch.Lines != nil {
		rec.Lines = patch.Lines
	}
	if patch.Balance != nil {
		rec.Balance = *patch.Balance
	}

	updated, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal patched ledger record: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE ledger_snapshots SET record = $1 WHERE scope_key = $2 AND id = $3`,
		updated, scopeKey, id)
	if err != nil {
		return fmt.Errorf("failed to patch ledger record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}
