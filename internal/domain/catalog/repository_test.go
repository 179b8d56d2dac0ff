package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testEntries() []Entry {
	return []Entry{
		{BrandNumber: "1234", ProductName: "OLD MONK XXX RUM", IssuePrice: 120, MRP: 150, SizeCode: "G"},
		{BrandNumber: "5678", ProductName: "KINGFISHER STRONG", IssuePrice: 110, MRP: 140, SizeCode: "C"},
		{BrandNumber: "1234", ProductName: "OLD MONK SUPREME", IssuePrice: 180, MRP: 220, SizeCode: "G"},
	}
}

func TestMemoryRepository_LookupPreservesCatalogOrder(t *testing.T) {
	repo := NewMemoryRepository(testEntries())

	got := repo.Lookup("1234")
	require.Len(t, got, 2)
	assert.Equal(t, "OLD MONK XXX RUM", got[0].ProductName)
	assert.Equal(t, "OLD MONK SUPREME", got[1].ProductName)
}

func TestMemoryRepository_LookupTrimsBrandNumber(t *testing.T) {
	repo := NewMemoryRepository(testEntries())

	got := repo.Lookup("  5678 ")
	require.Len(t, got, 1)
	assert.Equal(t, "KINGFISHER STRONG", got[0].ProductName)
}

func TestMemoryRepository_Replace(t *testing.T) {
	repo := NewMemoryRepository(testEntries())
	repo.Replace([]Entry{{BrandNumber: "9999", ProductName: "NEW ARRIVAL", IssuePrice: 50}})

	assert.Empty(t, repo.Lookup("1234"))
	assert.Len(t, repo.Lookup("9999"), 1)
	assert.Equal(t, 1, repo.Len())
}

func TestMemoryRepository_SearchByName(t *testing.T) {
	repo := NewMemoryRepository(testEntries())

	got := repo.SearchByName("old monk", 5)
	require.NotEmpty(t, got)
	for _, e := range got {
		assert.Equal(t, "1234", e.BrandNumber)
	}

	assert.Empty(t, repo.SearchByName("", 5))
	assert.Empty(t, repo.SearchByName("old monk", 0))
}

func TestLoadCSV(t *testing.T) {
	in := strings.NewReader(
		"brand_number,product_name,issue_price,mrp,size_code,pack_type,type\n" +
			"1234,OLD MONK XXX RUM,120,150,G,G,IML\n" +
			",SKIPPED ROW,1,1,,,\n" +
			"5678,KINGFISHER STRONG,110,140,C,C,BEER\n")

	entries, err := LoadCSV(in)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1234", entries[0].BrandNumber)
	assert.Equal(t, 120.0, entries[0].IssuePrice)
	assert.Equal(t, "BEER", entries[1].Type)
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []interface{}{"Brand Number", "Product Name", "Issue Price", "MRP", "Size Code", "Pack Type", "Type"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	row1 := []interface{}{"1234", "OLD MONK XXX RUM", "1,200.00", 150, "G", "G", "IML"}
	require.NoError(t, f.SetSheetRow(sheet, "A2", &row1))
	row2 := []interface{}{"", "blank brand is skipped", 1, 1, "", "", ""}
	require.NoError(t, f.SetSheetRow(sheet, "A3", &row2))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	entries, err := LoadXLSX(buf)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "1234", entries[0].BrandNumber)
	assert.Equal(t, 1200.0, entries[0].IssuePrice)
	assert.Equal(t, "IML", entries[0].Type)
}

func TestLoadXLSX_NoHeader(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	row := []interface{}{"just", "random", "cells"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &row))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = LoadXLSX(buf)
	assert.Error(t, err)
}
