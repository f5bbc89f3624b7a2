package extractor

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"itinerary_parser/internal/registry"
)

// Rows rebuilds each page line by line from glyph positions. Glyphs sharing
// a baseline form one line and horizontal gaps become runs of spaces, so
// table columns stay roughly aligned with the header above them.
type Rows struct{}

func init() {
	registry.Register(&Rows{})
}

func (e *Rows) Name() string                { return "rows" }
func (e *Rows) Priority() int               { return 10 }
func (e *Rows) QuickCheck(data []byte) bool { return IsPDF(data) }

func (e *Rows) Extract(ctx context.Context, data []byte) (string, error) {
	return extractPages(ctx, data, func(p pdf.Page, _ map[string]*pdf.Font) (string, error) {
		rows, err := p.GetTextByRow()
		if err != nil {
			return "", err
		}
		return layoutRows(rows), nil
	})
}

// layoutRows renders rows top to bottom.
func layoutRows(rows pdf.Rows) string {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Position > rows[j].Position
	})

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if line := layoutRow(row.Content); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// layoutRow joins glyphs left to right. A gap of roughly one average glyph
// width becomes one space.
func layoutRow(texts pdf.TextHorizontal) string {
	sort.SliceStable(texts, func(i, j int) bool {
		return texts[i].X < texts[j].X
	})

	var b strings.Builder
	end := math.Inf(-1)
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		cell := glyphWidth(t)
		if gap := t.X - end; gap > cell*0.6 && b.Len() > 0 {
			n := int(math.Round(gap / cell))
			b.WriteString(strings.Repeat(" ", max(n, 1)))
		}
		b.WriteString(t.S)

		w := t.W
		if w <= 0 {
			w = cell * float64(len([]rune(t.S)))
		}
		end = max(end, t.X+w)
	}
	return b.String()
}

// glyphWidth estimates the advance of one character at the text's size.
func glyphWidth(t pdf.Text) float64 {
	if t.FontSize > 0 {
		return t.FontSize * 0.5
	}
	return 5
}
