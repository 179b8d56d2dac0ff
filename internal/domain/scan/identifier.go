// Package scan orchestrates the document pipeline: upload validation,
// fragment decoding, row assembly, the identifier dedup gate, table parsing
// and catalog matching. The identifier gate runs before parsing; a document
// that fails it leaves every downstream state untouched.
package scan

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/manoj7569971307/wine-sub000/internal/domain/extract"
)

// ErrMissingIdentifier fails a document with no depot code anywhere in its
// text.
var ErrMissingIdentifier = errors.New("scan: no document identifier found")

// ErrScanInFlight rejects an upload while another scan is running; the
// dedup set and ledger are shared state and scans never interleave.
var ErrScanInFlight = errors.New("scan: another scan is in flight")

// DuplicateDocumentError reports a resubmitted document. It carries the
// identifier for operator display.
type DuplicateDocumentError struct {
	Identifier string
}

func (e *DuplicateDocumentError) Error() string {
	return fmt.Sprintf("document %s was already processed", e.Identifier)
}

// identifierPattern is the depot document code: the ICDC prefix followed by
// 15 to 20 digits, word-bounded, case-insensitive.
var identifierPattern = regexp.MustCompile(`(?i)\bICDC\d{15,20}\b`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// ExtractIdentifier finds the document code in the fragment texts. The code
// can split across fragments and rows, so a space-joined pass is followed by
// a whitespace-compacted pass. The result is uppercased.
func ExtractIdentifier(fragments []extract.Fragment) (string, error) {
	texts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		texts = append(texts, f.Text)
	}
	joined := strings.Join(texts, " ")

	if m := identifierPattern.FindString(joined); m != "" {
		return strings.ToUpper(m), nil
	}
	compacted := whitespacePattern.ReplaceAllString(joined, "")
	if m := identifierPattern.FindString(compacted); m != "" {
		return strings.ToUpper(m), nil
	}
	return "", ErrMissingIdentifier
}
