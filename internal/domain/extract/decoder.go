package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrUnsupportedInput indicates the uploaded bytes are not a readable document.
var ErrUnsupportedInput = errors.New("unsupported input: not a readable document")

// Decoder produces the positioned fragment list for a whole document in one
// call. Implementations may block indefinitely on malformed input; callers
// surface a hung decode to the operator rather than retrying.
type Decoder interface {
	Decode(ctx context.Context, data []byte) ([]Fragment, error)
}

// Validator rejects non-document input before decoding starts. Decoders that
// know their input format implement it alongside Decoder.
type Validator interface {
	Validate(data []byte) error
}

// PDFDecoder extracts the text layer of a PDF with per-fragment positions.
type PDFDecoder struct{}

// NewPDFDecoder creates a PDF text-layer decoder.
func NewPDFDecoder() *PDFDecoder {
	return &PDFDecoder{}
}

// Validate rejects non-document input before any decoding happens.
func (d *PDFDecoder) Validate(data []byte) error {
	return ValidateUpload(data)
}

// ValidateUpload rejects non-document input before any decoding happens.
func ValidateUpload(data []byte) error {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return ErrUnsupportedInput
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedInput, err)
	}
	return nil
}

// Decode walks every page and returns all non-empty text fragments with their
// positions. Fragments come back unsorted; callers run SortFragments.
func (d *PDFDecoder) Decode(ctx context.Context, data []byte) ([]Fragment, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}

	var frags []Fragment
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}
		for _, t := range p.Content().Text {
			frags = append(frags, Fragment{
				Text: t.S,
				X:    t.X,
				Y:    t.Y,
				Page: pageIndex,
			})
		}
	}

	return frags, nil
}
