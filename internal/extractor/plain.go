package extractor

import (
	"context"

	"github.com/ledongthuc/pdf"

	"itinerary_parser/internal/registry"
)

// Plain reads the text stream of each page in content order. It copes with
// documents the row backend cannot lay out, at the cost of column spacing.
type Plain struct{}

func init() {
	registry.Register(&Plain{})
}

func (e *Plain) Name() string                { return "plain" }
func (e *Plain) Priority() int               { return 20 }
func (e *Plain) QuickCheck(data []byte) bool { return IsPDF(data) }

func (e *Plain) Extract(ctx context.Context, data []byte) (string, error) {
	return extractPages(ctx, data, func(p pdf.Page, fonts map[string]*pdf.Font) (string, error) {
		return p.GetPlainText(fonts)
	})
}
