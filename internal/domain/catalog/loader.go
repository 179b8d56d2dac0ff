package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for price-list files that are neither CSV
// nor XLSX.
var ErrUnsupportedFormat = fmt.Errorf("catalog: unsupported price list format")

// LoadFile loads a price list, dispatching on the file extension.
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open price list: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(f)
	case ".xlsx":
		return LoadXLSX(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadCSV parses a CSV price list. Column matching follows the csv struct
// tags on Entry; rows without a brand number are skipped.
func LoadCSV(r io.Reader) ([]Entry, error) {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		cr := csv.NewReader(in)
		cr.TrimLeadingSpace = true
		cr.LazyQuotes = true
		return cr
	})

	var rows []*Entry
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse CSV price list: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		if row == nil || strings.TrimSpace(row.BrandNumber) == "" {
			continue
		}
		e := *row
		e.BrandNumber = strings.TrimSpace(e.BrandNumber)
		e.ProductName = strings.TrimSpace(e.ProductName)
		entries = append(entries, e)
	}
	return entries, nil
}

// xlsxColumns maps lowercased header cells to Entry fields. Depot sheets use
// slightly different headings between quarters, so a few aliases each.
var xlsxColumns = map[string]string{
	"brand number": "brand",
	"brand no":     "brand",
	"brand_number": "brand",
	"product name": "name",
	"brand name":   "name",
	"product_name": "name",
	"issue price":  "issue",
	"issue_price":  "issue",
	"mrp":          "mrp",
	"size code":    "size",
	"size_code":    "size",
	"size":         "size",
	"pack type":    "pack",
	"pack_type":    "pack",
	"type":         "type",
}

// LoadXLSX parses an XLSX price list from the first sheet. The header row is
// located by scanning for a brand-number column.
func LoadXLSX(r io.Reader) ([]Entry, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX price list: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX price list has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	headerIdx := -1
	var cols map[int]string
	for i, row := range rows {
		cols = mapHeader(row)
		if _, ok := hasColumn(cols, "brand"); ok {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("XLSX price list has no recognizable header row")
	}

	entries := make([]Entry, 0, len(rows)-headerIdx-1)
	for _, row := range rows[headerIdx+1:] {
		var e Entry
		for col, field := range cols {
			if col >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[col])
			switch field {
			case "brand":
				e.BrandNumber = cell
			case "name":
				e.ProductName = cell
			case "issue":
				e.IssuePrice = parseNumber(cell)
			case "mrp":
				e.MRP = parseNumber(cell)
			case "size":
				e.SizeCode = cell
			case "pack":
				e.PackType = cell
			case "type":
				e.Type = cell
			}
		}
		if e.BrandNumber == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func mapHeader(row []string) map[int]string {
	cols := make(map[int]string)
	for i, cell := range row {
		key := strings.ToLower(strings.TrimSpace(cell))
		if field, ok := xlsxColumns[key]; ok {
			cols[i] = field
		}
	}
	return cols
}

func hasColumn(cols map[int]string, field string) (int, bool) {
	for i, f := range cols {
		if f == field {
			return i, true
		}
	}
	return 0, false
}

func parseNumber(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
