package cells

import (
	"strings"

	"github.com/tsawler/concordia/model"
)

// NearestExtractor assigns each word to the cell containing its centre
// point and joins a cell's words with single spaces in reading order. It is
// the simplest extraction method and the baseline the others are scored
// against.
type NearestExtractor struct{}

// NewNearestExtractor creates a nearest-cell extractor.
func NewNearestExtractor() *NearestExtractor {
	return &NearestExtractor{}
}

// Name returns "nearest".
func (e *NearestExtractor) Name() model.MethodID {
	return "nearest"
}

// Extract fills the boundary grid by centre-point assignment.
func (e *NearestExtractor) Extract(cols, rows model.ConsensusBoundary, region model.PageRegion) (model.CellGrid, Report, error) {
	placed, report := placeWords(cols, rows, region)

	grid := model.NewCellGrid("", e.Name(), rows.CellCount(), cols.CellCount())
	for r := range placed {
		for c := range placed[r] {
			words := placed[r][c]
			readingOrder(words)
			texts := make([]string, len(words))
			for i, w := range words {
				texts[i] = w.Text
			}
			grid.Cells[r][c] = strings.Join(texts, " ")
		}
	}
	return grid, report, nil
}
