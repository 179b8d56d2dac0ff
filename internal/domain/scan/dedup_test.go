package scan

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresDedupStore_Remember(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO seen_documents").
		WithArgs("shop-1", "ICDC123456789012345").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO seen_documents").
		WithArgs("shop-1", "ICDC123456789012345").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	store := NewPostgresDedupStore(mock)

	seen, err := store.Remember(context.Background(), "shop-1", "ICDC123456789012345")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = store.Remember(context.Background(), "shop-1", "ICDC123456789012345")
	require.NoError(t, err)
	assert.True(t, seen)

	assert.NoError(t, mock.ExpectationsWereMet())
}
