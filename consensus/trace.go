package consensus

import (
	"fmt"
	"strings"

	"github.com/tsawler/concordia/model"
)

// Trace records every intermediate step of one Combine call. It exists for
// diagnostics and calibration analysis only; nothing in the engine reads it
// back, so recording can never change the result.
type Trace struct {
	Axis        model.Axis
	Hypotheses  []model.BoundaryHypothesis
	PassThrough bool
	Tolerance   float64
	Expanded    []expandedPoint
	Threshold   float64
	Clusters    []model.ClusterRecord
}

// String renders the trace as a compact multi-line report.
func (t *Trace) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "axis=%s hypotheses=%d", t.Axis, len(t.Hypotheses))
	if t.PassThrough {
		b.WriteString(" (pass-through)\n")
		return b.String()
	}
	fmt.Fprintf(&b, " tolerance=%.3f threshold=%.3f\n", t.Tolerance, t.Threshold)

	for _, c := range t.Clusters {
		status := "rejected"
		if c.Accepted {
			status = "accepted"
		}
		fmt.Fprintf(&b, "  cluster @%.2f conf=%.3f methods=%d %s (%s)\n",
			c.Position, c.Confidence, c.MethodCount, status, c.Reason)
	}
	return b.String()
}

// AcceptedCount returns the number of accepted clusters.
func (t *Trace) AcceptedCount() int {
	n := 0
	for _, c := range t.Clusters {
		if c.Accepted {
			n++
		}
	}
	return n
}

// RejectedCount returns the number of rejected clusters.
func (t *Trace) RejectedCount() int {
	return len(t.Clusters) - t.AcceptedCount()
}
