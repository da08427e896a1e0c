// Package detect provides structure detection methods: pluggable algorithms
// that propose table boundary positions along one axis from page geometry.
//
// Detectors implement the [Detector] interface and register themselves by
// method ID:
//
//	d := detect.Get("lattice")
//	hyp, ok := d.Detect(region, ctx, model.AxisColumn)
//
// The package provides three reference methods:
//
//   - [LatticeDetector] ("lattice") - boundaries from ruled lines; points
//     carry ruled-line provenance
//   - [CliffDetector] ("cliff") - boundaries from whitespace valleys in the
//     text density profile
//   - [EdgeDetector] ("edges") - boundaries from stacked word edges
//
// A detector that finds no structure declines by returning false; the
// consensus engine combines whatever subset of methods did produce
// hypotheses. All detectors are pure and safe for concurrent use.
package detect
