// Package match reconciles parsed invoice lines against the product catalog.
// Each line's per-bottle issue price is normalized and searched for a
// brand-number plus tolerant-price hit; matched lines aggregate into a
// pending batch that awaits explicit confirmation before any ledger commit.
package match

import (
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/manoj7569971307/wine-sub000/internal/domain/catalog"
	"github.com/manoj7569971307/wine-sub000/internal/domain/invoice"
)

// priceTolerance is exclusive: a catalog entry at 100 matches computed
// prices in (99, 101) and rejects exactly 99 and 101.
const priceTolerance = 1.0

// Candidate is one aggregated ledger-candidate produced from matched lines.
type Candidate struct {
	BrandNumber string
	ProductName string
	Category    string
	IssuePrice  float64
	SizeCode    string
	Quantity    int
	Amount      float64
}

// PendingBatch summarizes a document's catalog matches. Zero matches is not
// an error; the batch is simply empty and no ledger mutation follows.
type PendingBatch struct {
	MatchedCount int
	TotalAmount  float64
	Candidates   []Candidate
}

// Matcher searches the catalog for parsed invoice lines.
type Matcher struct {
	catalog catalog.Repository
	logger  *slog.Logger
}

// NewMatcher creates a matcher over the given catalog.
func NewMatcher(repo catalog.Repository, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{catalog: repo, logger: logger}
}

// MatchTable runs every parsed line through normalization and catalog search
// and returns the aggregated pending batch.
func (m *Matcher) MatchTable(table *invoice.Table) *PendingBatch {
	batch := &PendingBatch{}
	if table == nil {
		return batch
	}

	for _, ln := range table.Lines {
		brand := strings.TrimSpace(ln.BrandNumber)
		qty := parseInt(ln.QtyCases)
		bottles := parseInt(ln.QtyBottles)
		if brand == "" || (qty == 0 && bottles == 0) {
			continue
		}

		packUnits := parseInt(splitPack(ln.PackQty))

		issue, ok := normalizeIssuePrice(ln.Total, qty, bottles, packUnits)
		if !ok {
			m.logger.Debug("discarding line with non-finite issue price",
				slog.String("brand_number", brand), slog.String("amount", ln.Total))
			continue
		}

		entry, found := m.findEntry(brand, issue)
		if !found {
			continue
		}

		calcQty := qty
		lineTotal := issue * float64(qty)
		if bottles != 0 {
			calcQty = packUnits*qty + bottles
			if packUnits != 0 {
				lineTotal = issue / float64(packUnits) * float64(calcQty)
			}
		}

		batch.MatchedCount++
		batch.TotalAmount += lineTotal
		batch.add(entry, calcQty, lineTotal)
	}

	sort.SliceStable(batch.Candidates, func(i, j int) bool {
		a, b := batch.Candidates[i].ProductName, batch.Candidates[j].ProductName
		if (a == "") != (b == "") {
			return b == ""
		}
		return a < b
	})
	return batch
}

// add merges a match into the batch, summing quantity when a candidate with
// the same brand number and a tolerant-equal issue price already exists.
func (b *PendingBatch) add(entry catalog.Entry, quantity int, amount float64) {
	for i := range b.Candidates {
		c := &b.Candidates[i]
		if c.BrandNumber == entry.BrandNumber && math.Abs(c.IssuePrice-entry.IssuePrice) < priceTolerance {
			c.Quantity += quantity
			c.Amount += amount
			return
		}
	}
	b.Candidates = append(b.Candidates, Candidate{
		BrandNumber: entry.BrandNumber,
		ProductName: entry.ProductName,
		Category:    entry.Type,
		IssuePrice:  entry.IssuePrice,
		SizeCode:    entry.SizeCode,
		Quantity:    quantity,
		Amount:      amount,
	})
}

// findEntry returns the first catalog entry in catalog order whose brand
// number string-equals the parsed one and whose issue price lies strictly
// within the tolerance window.
func (m *Matcher) findEntry(brand string, issue float64) (catalog.Entry, bool) {
	for _, entry := range m.catalog.Lookup(brand) {
		if math.Abs(entry.IssuePrice-issue) < priceTolerance {
			return entry, true
		}
	}
	return catalog.Entry{}, false
}

// normalizeIssuePrice computes the per-bottle issue price. The two branches
// normalize the amount differently on purpose: with no residual bottles the
// amount is truncated to an integer before dividing, with residual bottles
// it keeps its decimals and the result is rounded up. Matching against the
// existing catalog depends on this exact behavior.
func normalizeIssuePrice(amount string, qty, bottles, packUnits int) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(amount), ",", "")

	if bottles == 0 {
		if dot := strings.IndexByte(cleaned, '.'); dot >= 0 {
			cleaned = cleaned[:dot]
		}
		total, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		issue := total / float64(qty)
		return issue, isFinite(issue)
	}

	total, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	issue := math.Ceil(total / float64(qty*packUnits+bottles) * float64(packUnits))
	return issue, isFinite(issue)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// splitPack returns the unit count from a pack string like "12/750 ml",
// defaulting to "0" when the separator is missing.
func splitPack(packQty string) string {
	units, _, found := strings.Cut(packQty, "/")
	if !found {
		return "0"
	}
	return strings.TrimSpace(units)
}

func parseInt(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
