package detect

import (
	"math"
	"sort"

	"github.com/tsawler/concordia/model"
)

// EdgeDetector proposes boundaries from stacked word edges. Cells in a
// column tend to share a left (or right) edge across many rows, so a
// coordinate where several edges align is strong evidence of a column
// boundary; tops and bottoms play the same role for rows.
type EdgeDetector struct {
	// MinSupport is the minimum number of aligned edges for a boundary.
	MinSupport int
}

// NewEdgeDetector creates an edge detector with default settings.
func NewEdgeDetector() *EdgeDetector {
	return &EdgeDetector{MinSupport: 2}
}

// Name returns "edges".
func (d *EdgeDetector) Name() model.MethodID {
	return "edges"
}

// Detect clusters word edge coordinates along the axis and emits a boundary
// for each cluster with enough support. Confidence is the cluster's support
// relative to the best-supported cluster. Declines when no cluster reaches
// MinSupport.
func (d *EdgeDetector) Detect(region model.PageRegion, ctx model.TableContext, axis model.Axis) (model.BoundaryHypothesis, bool) {
	if len(region.Words) < d.MinSupport {
		return model.BoundaryHypothesis{}, false
	}

	edges := collectEdges(region.Words, axis)
	clusters := clusterEdges(edges, edgeTolerance(ctx))

	maxSupport := 0
	for _, c := range clusters {
		if c.support > maxSupport {
			maxSupport = c.support
		}
	}
	if maxSupport < d.MinSupport {
		return model.BoundaryHypothesis{}, false
	}

	lo, hi := axisExtent(region.BBox, axis)
	hyp := model.BoundaryHypothesis{Method: d.Name(), Axis: axis}
	for _, c := range clusters {
		if c.support < d.MinSupport {
			continue
		}
		// Edge stacks at the region border delimit the table, not a cell.
		if c.position-lo < edgeTolerance(ctx) || hi-c.position < edgeTolerance(ctx) {
			continue
		}
		hyp.Points = append(hyp.Points, model.BoundaryPoint{
			Position:   c.position,
			Confidence: float64(c.support) / float64(maxSupport),
			Method:     d.Name(),
		})
	}

	if len(hyp.Points) == 0 {
		return model.BoundaryHypothesis{}, false
	}
	return hyp, true
}

// edgeTolerance is the alignment distance for edge stacking, tied to the
// word height so tighter typography clusters tighter.
func edgeTolerance(ctx model.TableContext) float64 {
	if ctx.MedianWordHeight > 0 {
		return math.Max(ctx.MedianWordHeight*0.15, 0.75)
	}
	return 1.5
}

// collectEdges gathers the leading edge of every word for the axis: left
// edges for columns (cells left-align far more often than they right-align)
// and top edges for rows.
func collectEdges(words []model.Word, axis model.Axis) []float64 {
	edges := make([]float64, 0, len(words))
	for _, w := range words {
		if axis == model.AxisColumn {
			edges = append(edges, w.BBox.Left())
		} else {
			edges = append(edges, w.BBox.Top())
		}
	}
	return edges
}

// edgeCluster is a group of aligned edge coordinates.
type edgeCluster struct {
	position float64 // running mean
	support  int
}

// clusterEdges merges sorted edge coordinates within tolerance of the
// running cluster mean.
func clusterEdges(edges []float64, tolerance float64) []edgeCluster {
	if len(edges) == 0 {
		return nil
	}
	sorted := make([]float64, len(edges))
	copy(sorted, edges)
	sort.Float64s(sorted)

	var clusters []edgeCluster
	for _, e := range sorted {
		if n := len(clusters); n > 0 && e-clusters[n-1].position <= tolerance {
			c := &clusters[n-1]
			c.position = (c.position*float64(c.support) + e) / float64(c.support+1)
			c.support++
			continue
		}
		clusters = append(clusters, edgeCluster{position: e, support: 1})
	}
	return clusters
}
