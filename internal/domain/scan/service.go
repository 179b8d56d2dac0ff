package scan

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/manoj7569971307/wine-sub000/internal/domain/extract"
	"github.com/manoj7569971307/wine-sub000/internal/domain/invoice"
	"github.com/manoj7569971307/wine-sub000/internal/domain/ledger"
	"github.com/manoj7569971307/wine-sub000/internal/domain/match"
)

// Result is everything one document scan produces: the extracted identifier,
// the structured table, and the pending batch awaiting confirmation.
type Result struct {
	Identifier string
	Table      *invoice.Table
	Batch      *match.PendingBatch
}

// Service runs the scan pipeline for one shop.
type Service struct {
	decoder  extract.Decoder
	parser   *invoice.Parser
	matcher  *match.Matcher
	dedup    DedupStore
	ledger   *ledger.Ledger
	scopeKey string
	logger   *slog.Logger

	inFlight atomic.Bool
}

// NewService wires the pipeline stages together.
func NewService(decoder extract.Decoder, matcher *match.Matcher, dedup DedupStore, ldg *ledger.Ledger, scopeKey string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		decoder:  decoder,
		parser:   invoice.NewParser(),
		matcher:  matcher,
		dedup:    dedup,
		ledger:   ldg,
		scopeKey: scopeKey,
		logger:   logger,
	}
}

// Scan runs one document through the pipeline. It rejects concurrent calls,
// and any failure before the identifier is recorded leaves the dedup set and
// ledger untouched.
func (s *Service) Scan(ctx context.Context, data []byte) (*Result, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrScanInFlight
	}
	defer s.inFlight.Store(false)

	if v, ok := s.decoder.(extract.Validator); ok {
		if err := v.Validate(data); err != nil {
			return nil, err
		}
	}

	fragments, err := s.decoder.Decode(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	extract.SortFragments(fragments)

	identifier, err := ExtractIdentifier(fragments)
	if err != nil {
		return nil, err
	}

	seen, err := s.dedup.Remember(ctx, s.scopeKey, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to check document identifier: %w", err)
	}
	if seen {
		s.logger.Warn("duplicate document rejected", slog.String("identifier", identifier))
		return nil, &DuplicateDocumentError{Identifier: identifier}
	}

	rows := extract.AssembleRows(fragments)
	table := s.parser.Parse(rows)
	batch := s.matcher.MatchTable(table)

	s.logger.Info("document scanned",
		slog.String("identifier", identifier),
		slog.Int("rows", len(rows)),
		slog.Int("lines", len(table.Lines)),
		slog.Bool("found_data", table.FoundData),
		slog.Int("matched", batch.MatchedCount))

	return &Result{Identifier: identifier, Table: table, Batch: batch}, nil
}

// Confirm commits a pending batch's candidates to the ledger as receipts.
func (s *Service) Confirm(batch *match.PendingBatch) {
	if batch == nil || len(batch.Candidates) == 0 {
		return
	}

	receipts := make([]ledger.Receipt, 0, len(batch.Candidates))
	for _, c := range batch.Candidates {
		receipts = append(receipts, ledger.Receipt{
			Particulars: c.ProductName,
			Category:    c.Category,
			Rate:        c.IssuePrice,
			Size:        c.SizeCode,
			BrandNumber: c.BrandNumber,
			IssuePrice:  c.IssuePrice,
			Quantity:    c.Quantity,
		})
	}
	s.ledger.CommitBatch(receipts)
	s.logger.Info("batch committed",
		slog.Int("candidates", len(receipts)),
		slog.Float64("total_amount", batch.TotalAmount))
}
