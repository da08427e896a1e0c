package model

// Axis identifies which table axis a boundary belongs to.
type Axis int

const (
	// AxisColumn - vertical boundaries separating columns (X positions).
	AxisColumn Axis = iota
	// AxisRow - horizontal boundaries separating rows (Y positions).
	AxisRow
)

// String returns a human-readable representation of the axis.
func (a Axis) String() string {
	switch a {
	case AxisColumn:
		return "column"
	case AxisRow:
		return "row"
	default:
		return "unknown"
	}
}

// MethodID identifies a detection or extraction method.
type MethodID string

// Provenance records how a boundary point was derived.
type Provenance int

const (
	// ProvenanceNormal - derived from text geometry.
	ProvenanceNormal Provenance = iota
	// ProvenanceRuledLine - derived from a physical ruled line. Carries an
	// unconditional acceptance override during combination.
	ProvenanceRuledLine
)

// String returns a human-readable representation of the provenance.
func (p Provenance) String() string {
	if p == ProvenanceRuledLine {
		return "ruled_line"
	}
	return "normal"
}

// BoundaryPoint is a single candidate boundary position proposed by a
// detection method. Immutable once created.
type BoundaryPoint struct {
	Position   float64
	Confidence float64
	Method     MethodID
	Provenance Provenance
}

// BoundaryHypothesis is one method's full proposal for one axis. A method
// that finds no structure returns no hypothesis at all; an empty point list
// is a distinct (and unusual) statement that the axis has no boundaries.
type BoundaryHypothesis struct {
	Method MethodID
	Axis   Axis
	Points []BoundaryPoint // ordered by position
}

// Acceptance reasons recorded on cluster records.
const (
	ReasonAboveThreshold    = "above_threshold"
	ReasonRuledLineOverride = "ruled_line_override"
	ReasonRejected          = "rejected"
)

// ClusterRecord describes one merged cluster of boundary points and the
// acceptance decision taken for it.
type ClusterRecord struct {
	Position    float64    // representative position (median of members)
	Confidence  float64    // sum of scaled member confidences
	Methods     []MethodID // distinct contributing methods, sorted
	MethodCount int
	Accepted    bool
	Reason      string
}

// ConsensusBoundary is the combined boundary set for one axis. Positions are
// strictly increasing; the set may be empty.
type ConsensusBoundary struct {
	Axis      Axis
	Positions []float64
}

// CellCount returns the number of cells the boundary set induces along its
// axis: boundary count + 1.
func (c ConsensusBoundary) CellCount() int {
	return len(c.Positions) + 1
}
