package consensus

import (
	"sort"

	"github.com/tsawler/concordia/model"
)

// Tolerance fractions applied when no ruled-line thickness is available.
// Half the median inter-word gap keeps merged boundaries well inside a
// column gutter; a quarter word height serves the same role vertically.
const (
	gapToleranceFraction    = 0.5
	heightToleranceFraction = 0.25

	// minTolerance guards degenerate contexts (single word, zero gaps) so
	// the merge distance never collapses to zero.
	minTolerance = 1e-3
)

// expandedPoint is one boundary point widened to an interval for clustering.
type expandedPoint struct {
	point  model.BoundaryPoint
	scaled float64 // confidence after multiplier scaling
	lo, hi float64
}

// Combine merges all boundary hypotheses for one axis into a consensus
// boundary set. Multipliers scale each point's confidence by its method's
// calibrated trust (absent entries default to 1.0). The function is pure and
// deterministic; it never fails for well-formed input.
func Combine(hyps []model.BoundaryHypothesis, axis model.Axis, ctx model.TableContext, multipliers map[model.MethodID]float64) model.ConsensusBoundary {
	consensus, _ := combine(hyps, axis, ctx, multipliers, false)
	return consensus
}

// CombineTraced is Combine plus a full trace of the intermediate state:
// scaled inputs, tolerance, expanded intervals, clusters, threshold, and
// per-cluster acceptance decisions. The trace is diagnostic output only.
func CombineTraced(hyps []model.BoundaryHypothesis, axis model.Axis, ctx model.TableContext, multipliers map[model.MethodID]float64) (model.ConsensusBoundary, *Trace) {
	return combine(hyps, axis, ctx, multipliers, true)
}

func combine(hyps []model.BoundaryHypothesis, axis model.Axis, ctx model.TableContext, multipliers map[model.MethodID]float64, traced bool) (model.ConsensusBoundary, *Trace) {
	var trace *Trace
	if traced {
		trace = &Trace{Axis: axis, Hypotheses: hyps}
	}

	out := model.ConsensusBoundary{Axis: axis}

	switch len(hyps) {
	case 0:
		return out, trace
	case 1:
		// Single-hypothesis pass-through is a fixed invariant: with no
		// second opinion there is nothing to vote on, and re-merging a
		// consensus must return it unchanged.
		out.Positions = make([]float64, 0, len(hyps[0].Points))
		for _, p := range hyps[0].Points {
			out.Positions = append(out.Positions, p.Position)
		}
		sort.Float64s(out.Positions)
		out.Positions = dedupe(out.Positions)
		if trace != nil {
			trace.PassThrough = true
		}
		return out, trace
	}

	tolerance := Tolerance(ctx)
	expanded := expand(hyps, tolerance, multipliers)
	clusters := cluster(expanded)
	threshold := acceptanceThreshold(clusters)
	records := accept(clusters, threshold)

	for _, rec := range records {
		if rec.Accepted {
			out.Positions = append(out.Positions, rec.Position)
		}
	}
	sort.Float64s(out.Positions)

	if trace != nil {
		trace.Tolerance = tolerance
		trace.Expanded = expanded
		trace.Threshold = threshold
		trace.Clusters = records
	}
	return out, trace
}

// Tolerance derives the merge distance for one table from its context, in
// priority order: ruled-line stroke thickness when the region has strokes,
// else a fraction of the median inter-word gap, else a fraction of the
// median word height. The result is floored so it is never zero.
func Tolerance(ctx model.TableContext) float64 {
	tol := 0.0
	switch {
	case ctx.HasRuledLines && ctx.MedianLineWidth > 0:
		tol = ctx.MedianLineWidth
	case ctx.MedianWordGap > 0:
		tol = ctx.MedianWordGap * gapToleranceFraction
	default:
		tol = ctx.MedianWordHeight * heightToleranceFraction
	}
	if tol < minTolerance {
		tol = minTolerance
	}
	return tol
}

// expand scales each point's confidence and widens it symmetrically into an
// interval spanning at least the tolerance.
func expand(hyps []model.BoundaryHypothesis, tolerance float64, multipliers map[model.MethodID]float64) []expandedPoint {
	var points []expandedPoint
	for _, h := range hyps {
		mult := 1.0
		if m, ok := multipliers[h.Method]; ok {
			mult = m
		}
		for _, p := range h.Points {
			half := tolerance / 2
			points = append(points, expandedPoint{
				point:  p,
				scaled: p.Confidence * mult,
				lo:     p.Position - half,
				hi:     p.Position + half,
			})
		}
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].lo != points[j].lo {
			return points[i].lo < points[j].lo
		}
		return points[i].point.Method < points[j].point.Method
	})
	return points
}

// cluster merges overlapping intervals in a single left-to-right sweep.
func cluster(points []expandedPoint) [][]expandedPoint {
	if len(points) == 0 {
		return nil
	}

	var clusters [][]expandedPoint
	current := []expandedPoint{points[0]}
	hi := points[0].hi

	for _, p := range points[1:] {
		if p.lo <= hi {
			current = append(current, p)
			if p.hi > hi {
				hi = p.hi
			}
			continue
		}
		clusters = append(clusters, current)
		current = []expandedPoint{p}
		hi = p.hi
	}
	clusters = append(clusters, current)

	return clusters
}

// acceptanceThreshold computes the per-axis confidence bar: the median of
// the clusters' distinct-method counts. A cluster backed by at least a
// typical amount of independent agreement clears it.
func acceptanceThreshold(clusters [][]expandedPoint) float64 {
	counts := make([]float64, len(clusters))
	for i, members := range clusters {
		counts[i] = float64(distinctMethods(members))
	}
	return model.Median(counts)
}

// accept builds the cluster records, applying the threshold and the
// ruled-line override.
func accept(clusters [][]expandedPoint, threshold float64) []model.ClusterRecord {
	records := make([]model.ClusterRecord, 0, len(clusters))
	for _, members := range clusters {
		rec := model.ClusterRecord{
			Position:    representative(members),
			MethodCount: distinctMethods(members),
			Methods:     methodSet(members),
		}

		ruled := false
		for _, m := range members {
			rec.Confidence += m.scaled
			if m.point.Provenance == model.ProvenanceRuledLine {
				ruled = true
			}
		}

		switch {
		case ruled:
			// A physical ruled line is direct evidence of a boundary;
			// it is accepted no matter how the vote went.
			rec.Accepted = true
			rec.Reason = model.ReasonRuledLineOverride
		case rec.Confidence >= threshold:
			rec.Accepted = true
			rec.Reason = model.ReasonAboveThreshold
		default:
			rec.Reason = model.ReasonRejected
		}

		records = append(records, rec)
	}
	return records
}

// dedupe drops repeated values from a sorted slice, in place. Boundary
// positions must be strictly increasing.
func dedupe(sorted []float64) []float64 {
	if len(sorted) < 2 {
		return sorted
	}
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// representative returns the median position of the cluster's members.
func representative(members []expandedPoint) float64 {
	positions := make([]float64, len(members))
	for i, m := range members {
		positions[i] = m.point.Position
	}
	return model.Median(positions)
}

func distinctMethods(members []expandedPoint) int {
	return len(methodSet(members))
}

func methodSet(members []expandedPoint) []model.MethodID {
	seen := make(map[model.MethodID]bool)
	var methods []model.MethodID
	for _, m := range members {
		if !seen[m.point.Method] {
			seen[m.point.Method] = true
			methods = append(methods, m.point.Method)
		}
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i] < methods[j] })
	return methods
}
