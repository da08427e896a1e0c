package postprocess

import (
	"regexp"
	"strings"

	"github.com/tsawler/concordia/model"
)

var (
	captionPattern  = regexp.MustCompile(`(?i)^(table|tab\.)\s*[0-9ivxlc]`)
	footnotePattern = regexp.MustCompile(`(?i)^([*†‡§]|[a-z]\)\s|\d\)\s|(note|notes|source|sources)\s*[:.])`)
	numericPattern  = regexp.MustCompile(`^[\s$€£%+-]*\d[\d\s.,%]*$`)
)

// looksNumeric reports whether a cell reads as a numeric value.
func looksNumeric(s string) bool {
	return numericPattern.MatchString(strings.TrimSpace(s))
}

// nonEmptyCells returns the indices of a row's non-blank cells.
func nonEmptyCells(row []string) []int {
	var idx []int
	for i, cell := range row {
		if strings.TrimSpace(cell) != "" {
			idx = append(idx, i)
		}
	}
	return idx
}

// singleCellText returns the row's only non-blank cell text, or "" when the
// row has zero or several populated cells.
func singleCellText(row []string) string {
	idx := nonEmptyCells(row)
	if len(idx) != 1 {
		return ""
	}
	return strings.TrimSpace(row[idx[0]])
}

// CaptionStrip removes leading caption rows that detection swallowed into
// the table region: rows whose only populated cell reads like "Table 3 ...".
type CaptionStrip struct{}

// Name returns "caption_strip".
func (CaptionStrip) Name() string { return "caption_strip" }

// Process strips caption rows off the top until the first row is data.
func (CaptionStrip) Process(grid model.CellGrid, _ model.TableContext) model.CellGrid {
	out := grid
	for out.NRows > 1 {
		text := singleCellText(out.Cells[0])
		if text == "" || !captionPattern.MatchString(text) {
			break
		}
		out = dropRow(out, 0)
	}
	return out
}

// FootnoteStrip removes trailing footnote rows: rows whose only populated
// cell starts with a footnote marker or a "Note:"/"Source:" prefix.
type FootnoteStrip struct{}

// Name returns "footnote_strip".
func (FootnoteStrip) Name() string { return "footnote_strip" }

// Process strips footnote rows off the bottom until the last row is data.
func (FootnoteStrip) Process(grid model.CellGrid, _ model.TableContext) model.CellGrid {
	out := grid
	for out.NRows > 1 {
		text := singleCellText(out.Cells[out.NRows-1])
		if text == "" || !footnotePattern.MatchString(text) {
			break
		}
		out = dropRow(out, out.NRows-1)
	}
	return out
}

// HeaderSeparate identifies the column-header row and records it on the
// grid. The grid keeps its cells; downstream consumers read HeaderRows to
// split header from body.
type HeaderSeparate struct{}

// Name returns "header_separate".
func (HeaderSeparate) Name() string { return "header_separate" }

// Process recomputes HeaderRows from scratch: the first row is a header
// when none of its populated cells are numeric while the body below has at
// least one predominantly numeric column.
func (HeaderSeparate) Process(grid model.CellGrid, _ model.TableContext) model.CellGrid {
	out := grid.Clone()
	out.HeaderRows = 0

	if out.NRows < 2 {
		return out
	}

	first := nonEmptyCells(out.Cells[0])
	if len(first) == 0 {
		return out
	}
	for _, c := range first {
		if looksNumeric(out.Cells[0][c]) {
			return out
		}
	}

	if bodyHasNumericColumn(out.Cells[1:], out.NCols) {
		out.HeaderRows = 1
	}
	return out
}

// bodyHasNumericColumn reports whether some column is at least 60% numeric
// among its populated body cells.
func bodyHasNumericColumn(body [][]string, nCols int) bool {
	for c := 0; c < nCols; c++ {
		numeric, populated := 0, 0
		for _, row := range body {
			cell := strings.TrimSpace(row[c])
			if cell == "" {
				continue
			}
			populated++
			if looksNumeric(cell) {
				numeric++
			}
		}
		if populated > 0 && float64(numeric)/float64(populated) >= 0.6 {
			return true
		}
	}
	return false
}

// ContinuationMerge folds wrapped rows back into their logical row. A
// physical row whose first column is blank and whose populated cells fill
// at most half the columns is the continuation of the row above; its texts
// append to the corresponding cells. Entirely blank rows are dropped.
type ContinuationMerge struct{}

// Name returns "continuation_merge".
func (ContinuationMerge) Name() string { return "continuation_merge" }

// Process merges continuation rows upward in one top-to-bottom pass.
func (ContinuationMerge) Process(grid model.CellGrid, _ model.TableContext) model.CellGrid {
	out := grid.Clone()

	start := out.HeaderRows
	if start < 1 {
		start = 1
	}

	var kept [][]string
	kept = append(kept, out.Cells[:min(start, len(out.Cells))]...)

	for r := start; r < len(out.Cells); r++ {
		row := out.Cells[r]
		populated := nonEmptyCells(row)

		if len(populated) == 0 {
			continue // blank row
		}

		isContinuation := strings.TrimSpace(row[0]) == "" &&
			len(populated)*2 <= out.NCols &&
			len(kept) > 0

		if !isContinuation {
			kept = append(kept, row)
			continue
		}

		target := kept[len(kept)-1]
		for _, c := range populated {
			if strings.TrimSpace(target[c]) == "" {
				target[c] = row[c]
			} else {
				target[c] = target[c] + " " + strings.TrimSpace(row[c])
			}
		}
	}

	if len(kept) == 0 {
		kept = [][]string{make([]string, out.NCols)}
	}
	out.Cells = kept
	out.NRows = len(kept)
	return out
}

// InlineHeaderLift removes section-label rows embedded in the table body
// (a single populated, non-numeric cell) and prefixes the label onto the
// first column of the rows it governs, up to the next section label.
type InlineHeaderLift struct{}

// Name returns "inline_header_lift".
func (InlineHeaderLift) Name() string { return "inline_header_lift" }

// Process lifts inline section labels into their rows.
func (InlineHeaderLift) Process(grid model.CellGrid, _ model.TableContext) model.CellGrid {
	if grid.NCols < 2 {
		return grid
	}

	out := grid.Clone()
	var kept [][]string
	label := ""

	for r, row := range out.Cells {
		text := singleCellText(row)
		isLabel := r >= out.HeaderRows &&
			text != "" &&
			!looksNumeric(text) &&
			!footnotePattern.MatchString(text) &&
			r < len(out.Cells)-1 // a trailing label governs nothing

		if isLabel {
			label = text
			continue
		}

		// A fully blank row takes no label: writing one would turn it
		// into a fresh section-label row on a later pass.
		if label != "" && r >= out.HeaderRows && len(nonEmptyCells(row)) > 0 {
			if strings.TrimSpace(row[0]) == "" {
				row[0] = label
			} else {
				row[0] = label + ": " + row[0]
			}
		}
		kept = append(kept, row)
	}

	if len(kept) == 0 {
		kept = [][]string{make([]string, out.NCols)}
	}
	out.Cells = kept
	out.NRows = len(kept)
	return out
}
