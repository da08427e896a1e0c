package pageio

import (
	"fmt"
	"math"
	"sort"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/concordia/model"
)

// Character-to-word assembly thresholds, in fractions of font size.
const (
	wordGapFraction   = 0.3 // horizontal gap that splits two words
	baselineTolerance = 0.5 // vertical drift that still counts as one baseline
)

// LoadPDF extracts one region per page of a PDF, covering all of the
// page's text. The underlying reader exposes positioned characters but not
// vector graphics, so regions carry no ruled strokes and detection falls
// to the text-based methods.
func LoadPDF(path string) ([]model.PageRegion, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	var regions []model.PageRegion
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		words := assembleWords(page.Content().Text)
		if len(words) == 0 {
			continue
		}

		region := model.PageRegion{Page: i, Words: words, BBox: wordsBBox(words)}
		regions = append(regions, region)
	}
	return regions, nil
}

// assembleWords groups positioned characters into words: characters share a
// word while they sit on the same baseline and the horizontal gap between
// them stays below a fraction of the font size.
func assembleWords(chars []pdf.Text) []model.Word {
	var glyphs []pdf.Text
	for _, c := range chars {
		if c.S == "" || c.S == " " || c.S == "\n" || c.S == "\t" {
			continue
		}
		glyphs = append(glyphs, c)
	}
	if len(glyphs) == 0 {
		return nil
	}

	sort.SliceStable(glyphs, func(a, b int) bool {
		if glyphs[a].Y != glyphs[b].Y {
			return glyphs[a].Y > glyphs[b].Y // top of the page first
		}
		return glyphs[a].X < glyphs[b].X
	})

	var words []model.Word
	current := newWordBuilder(glyphs[0])
	for _, g := range glyphs[1:] {
		if current.accepts(g) {
			current.add(g)
			continue
		}
		words = append(words, current.word())
		current = newWordBuilder(g)
	}
	words = append(words, current.word())
	return words
}

type wordBuilder struct {
	text     string
	minX     float64
	maxX     float64
	baseline float64
	fontName string
	fontSize float64
}

func newWordBuilder(g pdf.Text) wordBuilder {
	return wordBuilder{
		text:     g.S,
		minX:     g.X,
		maxX:     g.X + g.W,
		baseline: g.Y,
		fontName: g.Font,
		fontSize: g.FontSize,
	}
}

func (b *wordBuilder) accepts(g pdf.Text) bool {
	size := b.fontSize
	if size <= 0 {
		size = 10
	}
	if math.Abs(g.Y-b.baseline) > baselineTolerance*size {
		return false
	}
	return g.X-b.maxX <= wordGapFraction*size
}

func (b *wordBuilder) add(g pdf.Text) {
	b.text += g.S
	if g.X+g.W > b.maxX {
		b.maxX = g.X + g.W
	}
	if g.X < b.minX {
		b.minX = g.X
	}
}

func (b *wordBuilder) word() model.Word {
	size := b.fontSize
	if size <= 0 {
		size = 10
	}
	return model.Word{
		Text:     b.text,
		BBox:     model.NewBBox(b.minX, b.baseline, b.maxX-b.minX, size),
		FontName: b.fontName,
		FontSize: b.fontSize,
	}
}

func wordsBBox(words []model.Word) model.BBox {
	box := words[0].BBox
	for _, w := range words[1:] {
		box = box.Union(w.BBox)
	}
	return box
}
