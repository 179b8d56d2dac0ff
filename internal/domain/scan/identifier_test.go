package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manoj7569971307/wine-sub000/internal/domain/extract"
)

func fragmentsOf(texts ...string) []extract.Fragment {
	frags := make([]extract.Fragment, len(texts))
	for i, t := range texts {
		frags[i] = extract.Fragment{Text: t, Page: 1, Y: float64(800 - i*10)}
	}
	return frags
}

func TestExtractIdentifier(t *testing.T) {
	id, err := ExtractIdentifier(fragmentsOf("Invoice No", "ICDC123456789012345", "Date 01-08-2026"))
	require.NoError(t, err)
	assert.Equal(t, "ICDC123456789012345", id)
}

func TestExtractIdentifier_CaseInsensitiveAndUppercased(t *testing.T) {
	id, err := ExtractIdentifier(fragmentsOf("icdc123456789012345"))
	require.NoError(t, err)
	assert.Equal(t, "ICDC123456789012345", id)
}

func TestExtractIdentifier_SpansFragments(t *testing.T) {
	// The code split across two fragments only matches after whitespace
	// compaction.
	id, err := ExtractIdentifier(fragmentsOf("ICDC12345678", "9012345"))
	require.NoError(t, err)
	assert.Equal(t, "ICDC123456789012345", id)
}

func TestExtractIdentifier_Missing(t *testing.T) {
	_, err := ExtractIdentifier(fragmentsOf("no code here", "ICDC1234"))
	assert.ErrorIs(t, err, ErrMissingIdentifier)
}

func TestExtractIdentifier_RejectsGluedPrefix(t *testing.T) {
	_, err := ExtractIdentifier(fragmentsOf("XICDC123456789012345X"))
	assert.ErrorIs(t, err, ErrMissingIdentifier)
}

func TestExtractIdentifier_DigitCountBounds(t *testing.T) {
	// 14 digits: too short.
	_, err := ExtractIdentifier(fragmentsOf("ICDC12345678901234"))
	assert.ErrorIs(t, err, ErrMissingIdentifier)

	// 20 digits: upper bound accepted.
	id, err := ExtractIdentifier(fragmentsOf("ICDC12345678901234567890"))
	require.NoError(t, err)
	assert.Equal(t, "ICDC12345678901234567890", id)
}

func TestMemoryDedupStore_Remember(t *testing.T) {
	s := NewMemoryDedupStore()

	seen, err := s.Remember(t.Context(), "shop-1", "ICDC123456789012345")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = s.Remember(t.Context(), "shop-1", "ICDC123456789012345")
	require.NoError(t, err)
	assert.True(t, seen)

	// Same identifier under a different scope is novel.
	seen, err = s.Remember(t.Context(), "shop-2", "ICDC123456789012345")
	require.NoError(t, err)
	assert.False(t, seen)
}
