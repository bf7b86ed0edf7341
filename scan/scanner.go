package scan

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"homeland-merchant-backend/catalog"
	"homeland-merchant-backend/model"
)

// Recognizer is the OCR engine boundary: image bytes in, one text blob out.
// The engine itself (network, model, retries) lives behind this interface.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, mimeType string) (string, error)
}

// Scanner runs one screenshot through the whole pipeline.
type Scanner struct {
	cat    *catalog.Catalog
	ocr    Recognizer
	logger *zap.Logger
}

func NewScanner(cat *catalog.Catalog, ocr Recognizer, logger *zap.Logger) *Scanner {
	return &Scanner{cat: cat, ocr: ocr, logger: logger}
}

// Result carries the draft plus a soft warning when extraction came up
// empty. The warning is not an error: the player fixes the slots by hand.
type Result struct {
	Listing *model.Listing `json:"listing"`
	Warning string         `json:"warning,omitempty"`
}

// Scan recognizes the screenshot and assembles the extracted items into the
// in-progress draft. An OCR failure is surfaced to the caller, but a
// minimal one-placeholder draft is still returned so the manual-entry form
// renders without special-casing "no result".
func (s *Scanner) Scan(ctx context.Context, image []byte, mimeType string, kind MerchantKind, scanIndex int, draft *model.Listing) (*Result, error) {
	blob, err := s.ocr.Recognize(ctx, image, mimeType)
	if err != nil {
		s.logger.Warn("ocr recognition failed", zap.Error(err))
		if draft == nil {
			draft = &model.Listing{Items: model.EmptyItems(1)}
		}
		return &Result{Listing: draft}, fmt.Errorf("ocr recognition failed: %w", err)
	}

	items := Extract(s.cat, blob)
	res := &Result{Listing: Assemble(s.cat, kind, scanIndex, items, draft)}

	if discount, ok := FindDiscount(blob); ok {
		res.Listing.DiscountPercent = &discount
	}
	if len(items) == 0 {
		s.logger.Info("extraction found no items, returning empty draft")
		res.Warning = "no items recognized; please fill in the slots manually"
	}
	return res, nil
}
