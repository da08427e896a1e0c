// Package consensus implements the boundary combination engine: it merges
// the boundary hypotheses that independent structure detectors propose for
// one table axis into a single statistically justified boundary set.
//
// The algorithm, in order:
//
//  1. Degenerate handling: no hypotheses yields an empty consensus; a single
//     hypothesis passes through unchanged.
//  2. Confidence scaling by per-method calibration multipliers.
//  3. Spatial tolerance derivation from the table's own statistics (ruled
//     line thickness, else inter-word gap, else word height).
//  4. Expansion of each point into an interval at least one tolerance wide.
//  5. A single left-to-right sweep merging overlapping intervals into
//     clusters; a cluster's representative position is the median of its
//     members.
//  6. Acceptance against a per-axis threshold (the median of the clusters'
//     distinct-method counts), with an unconditional override for clusters
//     containing a ruled-line-derived point.
//
// [Combine] is deterministic and pure. [CombineTraced] returns the same
// result plus a [Trace] describing every intermediate step; the trace is a
// side channel only and never influences the outcome.
package consensus
