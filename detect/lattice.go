package detect

import (
	"math"
	"sort"

	"github.com/tsawler/concordia/model"
)

// LatticeDetector proposes boundaries from ruled lines. Vertical strokes
// become column boundaries and horizontal strokes become row boundaries;
// strokes aligned within a small tolerance collapse to one boundary.
//
// Every point it emits carries ruled-line provenance, which grants an
// unconditional acceptance override during combination. The detector
// declines on regions without usable strokes, so its activation predicate
// keeps it mutually exclusive with whitespace-based methods.
type LatticeDetector struct {
	// MinCoverage is the fraction of the region's perpendicular span a
	// stroke group must cover to count as a grid line rather than an
	// underline or decoration.
	MinCoverage float64
}

// NewLatticeDetector creates a lattice detector with default settings.
func NewLatticeDetector() *LatticeDetector {
	return &LatticeDetector{MinCoverage: 0.3}
}

// Name returns "lattice".
func (d *LatticeDetector) Name() model.MethodID {
	return "lattice"
}

// Detect groups the region's strokes for the requested axis into aligned
// boundary positions. It declines when fewer than two aligned groups
// survive filtering.
func (d *LatticeDetector) Detect(region model.PageRegion, ctx model.TableContext, axis model.Axis) (model.BoundaryHypothesis, bool) {
	lines := relevantLines(region.Lines, axis)
	if len(lines) == 0 {
		return model.BoundaryHypothesis{}, false
	}

	span := perpendicularSpan(region.BBox, axis)
	if span <= 0 {
		return model.BoundaryHypothesis{}, false
	}

	groups := groupAligned(lines, axis, alignTolerance(ctx))

	hyp := model.BoundaryHypothesis{Method: d.Name(), Axis: axis}
	for _, g := range groups {
		coverage := math.Min(1.0, g.length/span)
		if coverage < d.MinCoverage {
			continue
		}
		hyp.Points = append(hyp.Points, model.BoundaryPoint{
			Position:   g.position,
			Confidence: coverage,
			Method:     d.Name(),
			Provenance: model.ProvenanceRuledLine,
		})
	}

	if len(hyp.Points) < 2 {
		return model.BoundaryHypothesis{}, false
	}
	return hyp, true
}

// alignTolerance is the stroke alignment distance: scaled from the median
// stroke thickness when known, with a sane floor for hairlines.
func alignTolerance(ctx model.TableContext) float64 {
	if ctx.MedianLineWidth > 0 {
		return math.Max(3*ctx.MedianLineWidth, 1.0)
	}
	return 3.0
}

// relevantLines selects vertical strokes for column detection and
// horizontal strokes for row detection.
func relevantLines(lines []model.RuledLine, axis model.Axis) []model.RuledLine {
	var out []model.RuledLine
	for _, l := range lines {
		if axis == model.AxisColumn && l.IsVertical() {
			out = append(out, l)
		}
		if axis == model.AxisRow && l.IsHorizontal() {
			out = append(out, l)
		}
	}
	return out
}

func perpendicularSpan(bbox model.BBox, axis model.Axis) float64 {
	if axis == model.AxisColumn {
		return bbox.Height
	}
	return bbox.Width
}

// lineGroup is a set of strokes aligned at one boundary position.
type lineGroup struct {
	position float64 // running mean of member positions
	length   float64 // summed stroke length
	count    int
}

// groupAligned merges strokes whose axis positions fall within tolerance of
// the running group mean, sweeping in position order.
func groupAligned(lines []model.RuledLine, axis model.Axis, tolerance float64) []lineGroup {
	positions := make([]float64, len(lines))
	for i, l := range lines {
		if axis == model.AxisColumn {
			positions[i] = (l.Start.X + l.End.X) / 2
		} else {
			positions[i] = (l.Start.Y + l.End.Y) / 2
		}
	}

	order := make([]int, len(lines))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return positions[order[i]] < positions[order[j]] })

	var groups []lineGroup
	for _, idx := range order {
		pos := positions[idx]
		length := lines[idx].Length()

		if n := len(groups); n > 0 && pos-groups[n-1].position <= tolerance {
			g := &groups[n-1]
			g.position = (g.position*float64(g.count) + pos) / float64(g.count+1)
			g.length += length
			g.count++
			continue
		}
		groups = append(groups, lineGroup{position: pos, length: length, count: 1})
	}
	return groups
}
