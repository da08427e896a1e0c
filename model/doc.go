// Package model defines the shared data types of the consensus table
// extraction pipeline: page geometry, per-table input regions, boundary
// hypotheses and their consensus form, cell grids, and extraction results.
//
// Everything in this package is plain data. The only behaviour is small
// derived accessors (geometry predicates, invariant checks) and
// [ComputeContext], which distills a [PageRegion] into the read-only
// [TableContext] statistics the rest of the pipeline adapts to.
//
// Coordinates follow PDF conventions: the origin is at the bottom-left of
// the page and Y grows upward. Row boundaries are therefore Y positions
// sorted ascending, with the visually topmost row having the largest Y.
package model
