package cells

import (
	"sort"
	"strings"

	"github.com/tsawler/concordia/model"
)

// FlowExtractor reconstructs each cell's internal line structure. Words are
// assigned to cells by centre point like the nearest method, but within a
// cell they are bucketed into text lines by vertical overlap; lines join
// with newlines and preserve the wrapping the page showed. This keeps
// multi-line cells legible and lets the decimal-displacement metric see
// values that were split across lines.
type FlowExtractor struct{}

// NewFlowExtractor creates a flow extractor.
func NewFlowExtractor() *FlowExtractor {
	return &FlowExtractor{}
}

// Name returns "flow".
func (e *FlowExtractor) Name() model.MethodID {
	return "flow"
}

// Extract fills the boundary grid with per-cell line reconstruction.
func (e *FlowExtractor) Extract(cols, rows model.ConsensusBoundary, region model.PageRegion) (model.CellGrid, Report, error) {
	placed, report := placeWords(cols, rows, region)

	grid := model.NewCellGrid("", e.Name(), rows.CellCount(), cols.CellCount())
	for r := range placed {
		for c := range placed[r] {
			grid.Cells[r][c] = assembleCell(placed[r][c])
		}
	}
	return grid, report, nil
}

// assembleCell buckets a cell's words into text lines and joins them.
func assembleCell(words []model.Word) string {
	if len(words) == 0 {
		return ""
	}

	sorted := make([]model.Word, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].BBox.Center().Y > sorted[j].BBox.Center().Y
	})

	var lines [][]model.Word
	current := []model.Word{sorted[0]}
	for _, w := range sorted[1:] {
		last := current[len(current)-1]
		if sameLine(last, w) {
			current = append(current, w)
			continue
		}
		lines = append(lines, current)
		current = []model.Word{w}
	}
	lines = append(lines, current)

	parts := make([]string, len(lines))
	for i, line := range lines {
		sort.Slice(line, func(a, b int) bool {
			return line[a].BBox.Left() < line[b].BBox.Left()
		})
		texts := make([]string, len(line))
		for j, w := range line {
			texts[j] = w.Text
		}
		parts[i] = strings.Join(texts, " ")
	}
	return strings.Join(parts, "\n")
}

// sameLine reports whether two words share a text line: their vertical
// centres differ by less than half the taller word's height.
func sameLine(a, b model.Word) bool {
	dy := a.BBox.Center().Y - b.BBox.Center().Y
	if dy < 0 {
		dy = -dy
	}
	limit := a.BBox.Height
	if b.BBox.Height > limit {
		limit = b.BBox.Height
	}
	return dy < limit/2
}
