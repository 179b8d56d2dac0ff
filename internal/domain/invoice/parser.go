// Package invoice reconstructs structured line items from the visual rows of
// a scanned depot invoice. The layout wraps long brand names and sometimes
// pushes numeric fields onto a following line, so parsing runs as a small
// state machine over classified rows with a pure continuation-merge reducer.
package invoice

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/manoj7569971307/wine-sub000/internal/domain/extract"
)

// Columns is the fixed output header; the source header row is discarded.
var Columns = []string{
	"S.No", "Brand Number", "Brand Name", "Product Type", "Pack Type",
	"Pack Qty", "Qty (Cases)", "Qty (Btls)", "Rate/Case", "Rate/Btl", "Amount",
}

// Line is one parsed invoice item. Numeric-looking fields stay strings until
// the matcher consumes them; the source data is too noisy to coerce early.
type Line struct {
	Serial      string
	BrandNumber string
	BrandName   string
	ProductType string
	PackType    string
	PackQty     string
	QtyCases    string
	QtyBottles  string
	RatePerCase string
	UnitRate    string
	Total       string
}

// Table is the parsed output. When no data rows were found, Lines holds the
// single placeholder line and FoundData is false, so callers can tell "parsed
// zero items" apart from "parsing did not run".
type Table struct {
	Columns   []string
	Lines     []Line
	FoundData bool
}

// PlaceholderLine is the row inserted when a document yields no data rows.
func PlaceholderLine() Line {
	return Line{BrandName: "No data found"}
}

var (
	packQtyPattern = regexp.MustCompile(`(?i)(\d+)\s*/\s*(\d+)\s*ml`)
	numberPattern  = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
)

// Parser turns assembled rows into a Table.
type Parser struct {
	vocab *TypeVocabulary
}

// NewParser creates a parser with the default product-type vocabulary.
func NewParser() *Parser {
	return &Parser{vocab: DefaultVocabulary()}
}

// Parse scans rows for the table header, then folds every following row into
// line items until a summary marker ends the table.
func (p *Parser) Parse(rows []extract.Row) *Table {
	t := &Table{Columns: Columns}

	i := 0
	headerFound := false
	for ; i < len(rows); i++ {
		c := p.Classify(rows[i].Text)
		if c.Kind == HeaderRow {
			headerFound = true
			i++
			break
		}
	}

	var open *Line
	flush := func() {
		if open != nil {
			t.Lines = append(t.Lines, *open)
			open = nil
		}
	}

	if headerFound {
	scan:
		for ; i < len(rows); i++ {
			row := p.Classify(rows[i].Text)
			switch row.Kind {
			case SummaryRow:
				break scan
			case DataRow:
				flush()
				ln := p.parseDataRow(row.Serial, row.Brand, row.Rest)
				open = &ln
			case ContinuationRow:
				if open != nil {
					merged := p.mergeContinuation(*open, row.Text)
					open = &merged
				}
			}
		}
		flush()
	}

	if len(t.Lines) == 0 {
		t.Lines = append(t.Lines, PlaceholderLine())
		return t
	}
	t.FoundData = true
	return t
}

// parseDataRow splits the remainder of a matched data row into brand name and
// structured fields. Without a product-type token the whole remainder is the
// brand name; continuation lines fill the rest.
func (p *Parser) parseDataRow(serial, brand, rest string) Line {
	ln := Line{Serial: serial, BrandNumber: brand}

	term, idx, ok := p.vocab.Find(rest)
	if !ok {
		ln.BrandName = strings.TrimSpace(rest)
		return ln
	}

	ln.BrandName = strings.TrimSpace(rest[:idx])
	ln.ProductType = term
	fillStructured(&ln, rest[idx+len(term):])
	return ln
}

// mergeContinuation folds a continuation row into the open item. A row with a
// product-type token is a secondary data fragment and only applies while the
// item's type slot is still open; anything else is a wrapped brand name.
func (p *Parser) mergeContinuation(item Line, text string) Line {
	if term, idx, ok := p.vocab.Find(text); ok {
		if item.ProductType != "" {
			return item
		}
		item.ProductType = term
		fillStructured(&item, text[idx+len(term):])
		return item
	}

	wrapped := strings.TrimSpace(text)
	if item.BrandName == "" {
		item.BrandName = wrapped
	} else {
		item.BrandName += " " + wrapped
	}
	return item
}

// fillStructured extracts pack type, pack quantity and the positional numeric
// fields from the text following a product-type token, skipping slots that
// are already filled.
func fillStructured(ln *Line, tail string) {
	numeric := tail
	if loc := packQtyPattern.FindStringIndex(tail); loc != nil {
		if ln.PackType == "" {
			ln.PackType = strings.TrimSpace(tail[:loc[0]])
		}
		if ln.PackQty == "" {
			ln.PackQty = strings.TrimSpace(tail[loc[0]:loc[1]])
		}
		numeric = tail[loc[1]:]
	} else if ln.PackType == "" {
		if d := strings.IndexFunc(tail, unicode.IsDigit); d >= 0 {
			ln.PackType = strings.TrimSpace(tail[:d])
			numeric = tail[d:]
		} else {
			ln.PackType = strings.TrimSpace(tail)
			numeric = ""
		}
	}

	nums := numberPattern.FindAllString(numeric, -1)
	slots := []*string{&ln.QtyCases, &ln.QtyBottles, &ln.RatePerCase, &ln.UnitRate, &ln.Total}
	next := 0
	for _, slot := range slots {
		if *slot != "" {
			continue
		}
		if next >= len(nums) {
			break
		}
		*slot = nums[next]
		next++
	}
}
