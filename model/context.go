package model

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TableContext holds per-table adaptive statistics. It is computed once per
// region by ComputeContext and never mutated afterwards; every downstream
// stage reads it concurrently without locking.
type TableContext struct {
	BBox BBox

	// MedianWordHeight is the median height of word bounding boxes.
	MedianWordHeight float64

	// MedianWordGap is the median horizontal gap between adjacent words
	// sharing a text line. Zero when the region has fewer than two words
	// on any line.
	MedianWordGap float64

	// MedianLineWidth is the median stroke thickness of the region's ruled
	// lines. Meaningful only when HasRuledLines is true.
	MedianLineWidth float64

	// HasRuledLines reports whether the region contains vector strokes.
	HasRuledLines bool

	WordCount int
	LineCount int
}

// ComputeContext derives a TableContext from a page region. It returns an
// error when the region's bounding box is invalid or the region contains no
// words; such a table cannot be extracted and is skipped by the caller.
func ComputeContext(region PageRegion) (TableContext, error) {
	if !region.BBox.IsValid() {
		return TableContext{}, fmt.Errorf("table region on page %d has invalid bbox %+v", region.Page, region.BBox)
	}
	if len(region.Words) == 0 {
		return TableContext{}, fmt.Errorf("table region on page %d contains no words", region.Page)
	}

	ctx := TableContext{
		BBox:      region.BBox,
		WordCount: len(region.Words),
		LineCount: len(region.Lines),
	}

	heights := make([]float64, 0, len(region.Words))
	for _, w := range region.Words {
		if w.BBox.Height > 0 {
			heights = append(heights, w.BBox.Height)
		}
	}
	ctx.MedianWordHeight = Median(heights)

	ctx.MedianWordGap = Median(horizontalGaps(region.Words))

	if len(region.Lines) > 0 {
		ctx.HasRuledLines = true
		widths := make([]float64, 0, len(region.Lines))
		for _, l := range region.Lines {
			if l.Width > 0 {
				widths = append(widths, l.Width)
			}
		}
		ctx.MedianLineWidth = Median(widths)
	}

	return ctx, nil
}

// horizontalGaps collects the gaps between horizontally adjacent words that
// share a text line (vertical centers within half a word height).
func horizontalGaps(words []Word) []float64 {
	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].BBox.Center().Y != sorted[j].BBox.Center().Y {
			return sorted[i].BBox.Center().Y > sorted[j].BBox.Center().Y
		}
		return sorted[i].BBox.Left() < sorted[j].BBox.Left()
	})

	var gaps []float64
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		dy := math.Abs(prev.BBox.Center().Y - cur.BBox.Center().Y)
		if dy > math.Max(prev.BBox.Height, cur.BBox.Height)/2 {
			continue // different lines
		}
		gap := cur.BBox.Left() - prev.BBox.Right()
		if gap > 0 {
			gaps = append(gaps, gap)
		}
	}
	return gaps
}

// Median returns the empirical median of values, or 0 for an empty slice.
// Even-sized inputs take the lower middle element (empirical quantile), which
// keeps the result an actually observed value.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}
