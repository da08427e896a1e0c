package postprocess

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/concordia/model"
)

// cellCleaner normalizes to NFKC (folding ligatures and full-width forms
// PDF text layers are full of) and strips format characters and the
// replacement rune left behind by broken encodings.
var cellCleaner = transform.Chain(
	norm.NFKC,
	runes.Remove(runes.In(unicode.Cf)),
	runes.Remove(runes.Predicate(func(r rune) bool { return r == '�' })),
)

// CellClean normalizes every cell's text: Unicode NFKC, format-character
// removal, whitespace collapsed within lines, blank lines dropped.
type CellClean struct{}

// Name returns "cell_clean".
func (CellClean) Name() string { return "cell_clean" }

// Process returns the grid with every cell cleaned.
func (CellClean) Process(grid model.CellGrid, _ model.TableContext) model.CellGrid {
	out := grid.Clone()
	for r := range out.Cells {
		for c := range out.Cells[r] {
			out.Cells[r][c] = cleanText(out.Cells[r][c])
		}
	}
	return out
}

// cleanText cleans one cell, preserving intentional line breaks.
func cleanText(s string) string {
	normalized, _, err := transform.String(cellCleaner, s)
	if err != nil {
		normalized = s
	}

	var lines []string
	for _, line := range strings.Split(normalized, "\n") {
		collapsed := strings.Join(strings.Fields(line), " ")
		if collapsed != "" {
			lines = append(lines, collapsed)
		}
	}
	return strings.Join(lines, "\n")
}
