package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manoj7569971307/wine-sub000/internal/domain/extract"
)

func rowsOf(texts ...string) []extract.Row {
	rows := make([]extract.Row, len(texts))
	for i, t := range texts {
		rows[i] = extract.Row{Page: 1, Y: float64(800 - i*10), Text: t}
	}
	return rows
}

func TestParse_SingleCompleteRow(t *testing.T) {
	p := NewParser()
	table := p.Parse(rowsOf(
		"TELANGANA STATE BEVERAGES CORPORATION",
		"S.No Brand No Brand Name Pack Qty",
		"1 1234 OLD MONK XXX RUM IML G 12/750 ml 10 0 1200.00 100.00 1200.00",
		"Invoice Qty 10",
	))

	require.True(t, table.FoundData)
	require.Len(t, table.Lines, 1)

	ln := table.Lines[0]
	assert.Equal(t, "1", ln.Serial)
	assert.Equal(t, "1234", ln.BrandNumber)
	assert.Equal(t, "OLD MONK XXX RUM", ln.BrandName)
	assert.Equal(t, "IML", ln.ProductType)
	assert.Equal(t, "G", ln.PackType)
	assert.Equal(t, "12/750 ml", ln.PackQty)
	assert.Equal(t, "10", ln.QtyCases)
	assert.Equal(t, "0", ln.QtyBottles)
	assert.Equal(t, "1200.00", ln.RatePerCase)
	assert.Equal(t, "100.00", ln.UnitRate)
	assert.Equal(t, "1200.00", ln.Total)
}

func TestParse_WrappedBrandName(t *testing.T) {
	p := NewParser()
	table := p.Parse(rowsOf(
		"S.No Brand No Brand Name",
		"2 5678 SIGNATURE RARE",
		"AGED WHISKY",
		"IML G 12/750 ml 5 0 900.00 75.00 4500.00",
		"Particulars",
	))

	require.Len(t, table.Lines, 1)
	ln := table.Lines[0]
	assert.Equal(t, "SIGNATURE RARE AGED WHISKY", ln.BrandName)
	assert.Equal(t, "IML", ln.ProductType)
	assert.Equal(t, "12/750 ml", ln.PackQty)
	assert.Equal(t, "5", ln.QtyCases)
	assert.Equal(t, "4500.00", ln.Total)
}

func TestParse_SecondaryFragmentFillsMissingSlots(t *testing.T) {
	p := NewParser()
	table := p.Parse(rowsOf(
		"S.No Brand No Brand Name",
		// Primary row wrapped before the product type; everything structured
		// arrives on the continuation line.
		"3 4321 KINGFISHER STRONG",
		"BEER C 12/650 ml 20 0 1500.00 125.00 30000.00",
		"TIN 36999999999",
	))

	require.Len(t, table.Lines, 1)
	ln := table.Lines[0]
	assert.Equal(t, "KINGFISHER STRONG", ln.BrandName)
	assert.Equal(t, "BEER", ln.ProductType)
	assert.Equal(t, "C", ln.PackType)
	assert.Equal(t, "12/650 ml", ln.PackQty)
	assert.Equal(t, "20", ln.QtyCases)
	assert.Equal(t, "0", ln.QtyBottles)
	assert.Equal(t, "1500.00", ln.RatePerCase)
	assert.Equal(t, "125.00", ln.UnitRate)
	assert.Equal(t, "30000.00", ln.Total)
}

func TestParse_SummaryMarkerEndsTable(t *testing.T) {
	p := NewParser()
	table := p.Parse(rowsOf(
		"S.No Brand No Brand Name",
		"1 1234 OLD MONK XXX RUM IML G 12/750 ml 10 0 1200.00 100.00 1200.00",
		"Invoice Qty 10",
		"2 5678 SHOULD NOT APPEAR IML G 12/750 ml 1 0 1.00 1.00 1.00",
	))

	require.Len(t, table.Lines, 1)
	assert.Equal(t, "1234", table.Lines[0].BrandNumber)
}

func TestParse_NoHeaderYieldsPlaceholder(t *testing.T) {
	p := NewParser()
	table := p.Parse(rowsOf(
		"some unrelated page",
		"with no tabular content",
	))

	assert.False(t, table.FoundData)
	require.Len(t, table.Lines, 1)
	assert.Equal(t, PlaceholderLine(), table.Lines[0])
}

func TestParse_HeaderButNoDataYieldsPlaceholder(t *testing.T) {
	p := NewParser()
	table := p.Parse(rowsOf(
		"S.No Brand No Brand Name",
		"Invoice Qty 0",
	))

	assert.False(t, table.FoundData)
	require.Len(t, table.Lines, 1)
	assert.Equal(t, "No data found", table.Lines[0].BrandName)
}

func TestParse_MissingProductTypeKeepsWholeRemainderAsBrand(t *testing.T) {
	p := NewParser()
	table := p.Parse(rowsOf(
		"S.No Brand No Brand Name",
		"4 9012 MCDOWELLS CELEBRATION",
		"Particulars",
	))

	require.Len(t, table.Lines, 1)
	ln := table.Lines[0]
	assert.Equal(t, "MCDOWELLS CELEBRATION", ln.BrandName)
	assert.Empty(t, ln.ProductType)
	assert.Empty(t, ln.QtyCases)
}

func TestClassify_URLLineIsNotContinuation(t *testing.T) {
	p := NewParser()
	c := p.Classify("visit www.tsbcl.telangana.gov.in")
	assert.Equal(t, Unclassified, c.Kind)
}

func TestClassify_LongLineIsNotContinuation(t *testing.T) {
	p := NewParser()
	c := p.Classify("this line is far too long to be a wrapped brand name fragment of any item")
	assert.Equal(t, Unclassified, c.Kind)
}
