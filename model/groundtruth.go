package model

import "strings"

// GroundTruth holds the reference cell contents for one table, used by the
// ground-truth quality metric and the offline calibration loop.
type GroundTruth struct {
	Cells [][]string
}

// Accuracy returns the fraction of ground-truth cells whose normalized text
// matches the corresponding cell of the candidate grid. Cells outside the
// candidate's dimensions count as mismatches, so a grid with the wrong shape
// scores low rather than erroring.
func (g GroundTruth) Accuracy(cells [][]string) float64 {
	total := 0
	matched := 0
	for r, row := range g.Cells {
		for c, want := range row {
			total++
			if r < len(cells) && c < len(cells[r]) && normalizeCell(cells[r][c]) == normalizeCell(want) {
				matched++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}

// normalizeCell collapses internal whitespace and trims, so line-wrapping
// differences between extractors do not count as cell mismatches.
func normalizeCell(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
