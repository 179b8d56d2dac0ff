package invoice

import "regexp"

// RowKind tags what a visual row means to the table parser.
type RowKind int

const (
	Unclassified RowKind = iota
	HeaderRow
	DataRow
	ContinuationRow
	SummaryRow
)

// ClassifiedRow is a row plus its classification. Serial, Brand and Rest are
// populated for DataRow only.
type ClassifiedRow struct {
	Kind   RowKind
	Text   string
	Serial string
	Brand  string
	Rest   string
}

var (
	dataRowPattern      = regexp.MustCompile(`^(\d{1,2})\s+(\d{3,5})\s+(.+)$`)
	serialHeaderPattern = regexp.MustCompile(`(?i)\b(?:s|sl|sr)\.?\s*no\b`)
	brandHeaderPattern  = regexp.MustCompile(`(?i)\bbrand\b`)
	summaryPattern      = regexp.MustCompile(`(?i)\btin\b|\bparticulars\b|\binvoice\s+qty\b`)
	urlPattern          = regexp.MustCompile(`(?i)https?://|www\.|\.(?:com|in|org|net)\b`)
	leadingDigitPattern = regexp.MustCompile(`^\d`)
)

// maxWrapLen caps how long a line can be and still count as a wrapped
// brand-name fragment.
const maxWrapLen = 40

// Classify tags a single row. Continuation rows cover both wrapped brand
// names and secondary data fragments; the reducer picks between the two.
func (p *Parser) Classify(text string) ClassifiedRow {
	if summaryPattern.MatchString(text) {
		return ClassifiedRow{Kind: SummaryRow, Text: text}
	}
	if serialHeaderPattern.MatchString(text) && brandHeaderPattern.MatchString(text) {
		return ClassifiedRow{Kind: HeaderRow, Text: text}
	}
	if m := dataRowPattern.FindStringSubmatch(text); m != nil {
		return ClassifiedRow{Kind: DataRow, Text: text, Serial: m[1], Brand: m[2], Rest: m[3]}
	}
	if p.vocab.Contains(text) {
		return ClassifiedRow{Kind: ContinuationRow, Text: text}
	}
	if !leadingDigitPattern.MatchString(text) && !urlPattern.MatchString(text) && len(text) <= maxWrapLen {
		return ClassifiedRow{Kind: ContinuationRow, Text: text}
	}
	return ClassifiedRow{Kind: Unclassified, Text: text}
}
