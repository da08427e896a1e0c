package score

import (
	"regexp"
	"strings"

	"github.com/tsawler/concordia/model"
)

// Metric is one quality dimension grids are ranked on. Eval's second return
// is false when the metric cannot be evaluated for this grid; selection then
// excludes the metric uniformly for every grid so no candidate is penalised
// asymmetrically.
type Metric struct {
	Name         string
	HigherBetter bool
	Eval         func(grid model.CellGrid, ctx model.TableContext, gt *model.GroundTruth) (float64, bool)
}

// DefaultMetrics returns the built-in metric set in declaration order:
// fill rate, decimal displacement, garbled fraction, numeric coherence, and
// ground-truth accuracy (available only on calibration runs).
func DefaultMetrics() []Metric {
	return []Metric{
		{Name: "fill_rate", HigherBetter: true, Eval: fillRate},
		{Name: "decimal_displacement", HigherBetter: false, Eval: decimalDisplacement},
		{Name: "garbled_fraction", HigherBetter: false, Eval: garbledFraction},
		{Name: "numeric_coherence", HigherBetter: true, Eval: numericCoherence},
		{Name: "ground_truth_accuracy", HigherBetter: true, Eval: groundTruthAccuracy},
	}
}

// fillRate is the fraction of cells containing text. Over-segmented grids
// scatter words across many empty cells and score low.
func fillRate(grid model.CellGrid, _ model.TableContext, _ *model.GroundTruth) (float64, bool) {
	total := grid.NRows * grid.NCols
	if total == 0 {
		return 0, false
	}
	return float64(grid.FilledCells()) / float64(total), true
}

// displacedDecimal matches a numeric value split across cell lines: a line
// of digits followed by a line starting with a decimal separator, or a line
// ending in a separator followed by more digits. This is the signature of a
// row boundary cutting through a number.
var displacedDecimal = regexp.MustCompile(`(?m)(^\s*-?\d+\s*\n\s*[.,]\d|[.,]\s*\n\s*\d)`)

// decimalDisplacement counts cells matching the split-number pattern.
func decimalDisplacement(grid model.CellGrid, _ model.TableContext, _ *model.GroundTruth) (float64, bool) {
	count := 0
	for _, row := range grid.Cells {
		for _, cell := range row {
			if strings.Contains(cell, "\n") && displacedDecimal.MatchString(cell) {
				count++
			}
		}
	}
	return float64(count), true
}

// garbledFraction is the fraction of non-empty cells whose mean token
// length exceeds an implausibility bound. The bound adapts to the grid's
// own text: three times the median token length, floored at 12 so ordinary
// long words never count. Runs of fused words (a symptom of collapsed
// column boundaries) blow well past it.
func garbledFraction(grid model.CellGrid, _ model.TableContext, _ *model.GroundTruth) (float64, bool) {
	var tokenLengths []float64
	for _, row := range grid.Cells {
		for _, cell := range row {
			for _, tok := range strings.Fields(cell) {
				tokenLengths = append(tokenLengths, float64(len([]rune(tok))))
			}
		}
	}
	if len(tokenLengths) == 0 {
		return 0, false
	}

	bound := 3 * model.Median(tokenLengths)
	if bound < 12 {
		bound = 12
	}

	nonEmpty, garbled := 0, 0
	for _, row := range grid.Cells {
		for _, cell := range row {
			toks := strings.Fields(cell)
			if len(toks) == 0 {
				continue
			}
			nonEmpty++
			total := 0
			for _, tok := range toks {
				total += len([]rune(tok))
			}
			if float64(total)/float64(len(toks)) > bound {
				garbled++
			}
		}
	}
	if nonEmpty == 0 {
		return 0, false
	}
	return float64(garbled) / float64(nonEmpty), true
}

var numericCell = regexp.MustCompile(`^[\s$€£%+-]*\d[\d\s.,%]*$`)

// isNumericCell reports whether a cell reads as a numeric value, allowing
// currency symbols, signs, percent marks, and digit grouping.
func isNumericCell(s string) bool {
	return numericCell.MatchString(strings.TrimSpace(s))
}

// numericCoherence is the fraction of populated columns that are near-
// uniformly numeric (>= 80% of populated cells) or near-uniformly
// non-numeric (<= 20%). Correct column boundaries keep a numeric column's
// cells together; misplaced ones mix text into it. The 20% slack absorbs
// stray cells such as "n/a" in an otherwise numeric column. Header rows
// are skipped when identified.
func numericCoherence(grid model.CellGrid, _ model.TableContext, _ *model.GroundTruth) (float64, bool) {
	bodyStart := grid.HeaderRows
	if bodyStart >= grid.NRows {
		bodyStart = 0
	}

	populated, coherent := 0, 0
	for c := 0; c < grid.NCols; c++ {
		numeric, nonEmpty := 0, 0
		for r := bodyStart; r < grid.NRows; r++ {
			cell := strings.TrimSpace(grid.Cells[r][c])
			if cell == "" {
				continue
			}
			nonEmpty++
			if isNumericCell(cell) {
				numeric++
			}
		}
		if nonEmpty == 0 {
			continue
		}
		populated++
		frac := float64(numeric) / float64(nonEmpty)
		if frac >= 0.8 || frac <= 0.2 {
			coherent++
		}
	}
	if populated == 0 {
		return 0, false
	}
	return float64(coherent) / float64(populated), true
}

// groundTruthAccuracy compares the grid against reference cells. Available
// only when a ground truth is supplied (calibration runs).
func groundTruthAccuracy(grid model.CellGrid, _ model.TableContext, gt *model.GroundTruth) (float64, bool) {
	if gt == nil {
		return 0, false
	}
	return gt.Accuracy(grid.Cells), true
}
