// Package score ranks candidate cell grids and selects a winner.
//
// Every structure×cell method combination produces one grid for a table;
// this package judges them by rank-sum scoring: for each quality [Metric]
// the grids are ranked by value (not raw score, so no metric's scale can
// dominate), the ranks are summed per grid, and the lowest total wins.
// Ties break by a declared structure-method priority order, making
// selection fully deterministic.
//
// Built-in metrics: fill rate, decimal-displacement count, garbled-text
// fraction, numeric-column coherence, and optional ground-truth cell
// accuracy for calibration runs. A metric that cannot be evaluated for one
// grid is dropped for all grids rather than penalising anyone asymmetrically.
package score
