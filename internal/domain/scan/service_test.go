package scan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manoj7569971307/wine-sub000/internal/domain/catalog"
	"github.com/manoj7569971307/wine-sub000/internal/domain/extract"
	"github.com/manoj7569971307/wine-sub000/internal/domain/ledger"
	"github.com/manoj7569971307/wine-sub000/internal/domain/match"
)

type stubDecoder struct {
	frags []extract.Fragment
}

func (d *stubDecoder) Decode(context.Context, []byte) ([]extract.Fragment, error) {
	return d.frags, nil
}

// gatedDecoder signals when a decode starts and blocks it until released.
type gatedDecoder struct {
	frags   []extract.Fragment
	entered chan struct{}
	release chan struct{}
}

func (d *gatedDecoder) Decode(context.Context, []byte) ([]extract.Fragment, error) {
	close(d.entered)
	<-d.release
	return d.frags, nil
}

func invoiceFragments() []extract.Fragment {
	return fragmentsOf(
		"TS DEPOT INVOICE ICDC123456789012345",
		"S.No Brand No Brand Name",
		"1 1234 OLD MONK XXX RUM IML G 12/750 ml 10 0 1200.00 100.00 1200.00",
		"Invoice Qty 10",
	)
}

func newTestService(frags []extract.Fragment) (*Service, *ledger.Ledger) {
	repo := catalog.NewMemoryRepository([]catalog.Entry{
		{BrandNumber: "1234", ProductName: "OLD MONK XXX RUM", IssuePrice: 120, SizeCode: "G", Type: "IML"},
	})
	ldg := ledger.New(ledger.NewMemoryStore(), "shop-1", time.Minute, nil)
	svc := NewService(&stubDecoder{frags: frags}, match.NewMatcher(repo, nil), NewMemoryDedupStore(), ldg, "shop-1", nil)
	return svc, ldg
}

func TestScan_FullPipeline(t *testing.T) {
	svc, ldg := newTestService(invoiceFragments())

	res, err := svc.Scan(t.Context(), []byte("upload"))
	require.NoError(t, err)
	assert.Equal(t, "ICDC123456789012345", res.Identifier)
	require.True(t, res.Table.FoundData)
	require.Len(t, res.Table.Lines, 1)
	assert.Equal(t, "OLD MONK XXX RUM", res.Table.Lines[0].BrandName)
	require.Equal(t, 1, res.Batch.MatchedCount)
	assert.Equal(t, 10, res.Batch.Candidates[0].Quantity)

	// Nothing reaches the ledger before explicit confirmation.
	assert.Empty(t, ldg.Lines())

	svc.Confirm(res.Batch)
	lines := ldg.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "OLD MONK XXX RUM", lines[0].Particulars)
	assert.Equal(t, 10, lines[0].Receipts)
	assert.Equal(t, "IML", lines[0].Category)
}

func TestScan_DuplicateDocumentRejected(t *testing.T) {
	svc, ldg := newTestService(invoiceFragments())

	res, err := svc.Scan(t.Context(), []byte("upload"))
	require.NoError(t, err)
	svc.Confirm(res.Batch)
	before := ldg.Lines()

	_, err = svc.Scan(t.Context(), []byte("upload"))
	var dup *DuplicateDocumentError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "ICDC123456789012345", dup.Identifier)
	assert.Equal(t, before, ldg.Lines())
}

func TestScan_MissingIdentifierLeavesDedupUntouched(t *testing.T) {
	svc, _ := newTestService(fragmentsOf("a page with no document code"))

	_, err := svc.Scan(t.Context(), []byte("upload"))
	assert.ErrorIs(t, err, ErrMissingIdentifier)

	// A later document carrying the identifier still goes through.
	svc.decoder = &stubDecoder{frags: invoiceFragments()}
	_, err = svc.Scan(t.Context(), []byte("upload"))
	assert.NoError(t, err)
}

// validatingDecoder rejects every upload before decoding.
type validatingDecoder struct {
	stubDecoder
	decoded bool
}

func (d *validatingDecoder) Validate([]byte) error { return extract.ErrUnsupportedInput }

func (d *validatingDecoder) Decode(ctx context.Context, data []byte) ([]extract.Fragment, error) {
	d.decoded = true
	return d.stubDecoder.Decode(ctx, data)
}

func TestScan_ValidationRejectsBeforeDecoding(t *testing.T) {
	dec := &validatingDecoder{stubDecoder: stubDecoder{frags: invoiceFragments()}}
	svc, _ := newTestService(nil)
	svc.decoder = dec

	_, err := svc.Scan(t.Context(), []byte("not a document"))
	assert.ErrorIs(t, err, extract.ErrUnsupportedInput)
	assert.False(t, dec.decoded)
}

func TestScan_RejectsConcurrentScan(t *testing.T) {
	dec := &gatedDecoder{
		frags:   invoiceFragments(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc, _ := newTestService(nil)
	svc.decoder = dec

	done := make(chan error, 1)
	go func() {
		_, err := svc.Scan(context.Background(), []byte("upload"))
		done <- err
	}()
	<-dec.entered

	_, err := svc.Scan(context.Background(), []byte("upload"))
	assert.ErrorIs(t, err, ErrScanInFlight)

	close(dec.release)
	require.NoError(t, <-done)
}

func TestScan_NoMatchesIsNotAnError(t *testing.T) {
	svc, _ := newTestService(fragmentsOf(
		"ICDC999456789012345",
		"S.No Brand No Brand Name",
		"1 9999 UNKNOWN BRAND IML G 12/750 ml 2 0 100.00 5.00 100.00",
		"Invoice Qty 2",
	))

	res, err := svc.Scan(t.Context(), []byte("upload"))
	require.NoError(t, err)
	assert.Zero(t, res.Batch.MatchedCount)
	assert.Empty(t, res.Batch.Candidates)
}
