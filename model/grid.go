package model

import "strings"

// GridKey identifies one structure-method × cell-method combination.
type GridKey struct {
	Structure MethodID
	Cell      MethodID
}

// String returns the key as "structure/cell".
func (k GridKey) String() string {
	return string(k.Structure) + "/" + string(k.Cell)
}

// CellGrid is a rectangular grid of cell texts produced by one cell
// extraction method against one consensus boundary set.
//
// Invariant: every row in Cells has exactly NCols entries. Use NewCellGrid
// to build grids that hold the invariant by construction.
type CellGrid struct {
	StructureMethod MethodID
	CellMethod      MethodID
	Cells           [][]string
	NRows           int
	NCols           int

	// HeaderRows is the number of leading rows identified as column
	// headers. Zero until the header separation post-processor runs.
	HeaderRows int
}

// NewCellGrid creates an empty rectangular grid of the given dimensions.
func NewCellGrid(structure, cell MethodID, nRows, nCols int) CellGrid {
	if nRows < 1 {
		nRows = 1
	}
	if nCols < 1 {
		nCols = 1
	}
	cells := make([][]string, nRows)
	for i := range cells {
		cells[i] = make([]string, nCols)
	}
	return CellGrid{
		StructureMethod: structure,
		CellMethod:      cell,
		Cells:           cells,
		NRows:           nRows,
		NCols:           nCols,
	}
}

// Key returns the grid's structure×cell key.
func (g CellGrid) Key() GridKey {
	return GridKey{Structure: g.StructureMethod, Cell: g.CellMethod}
}

// IsRectangular reports whether every row has exactly NCols entries and the
// row count matches NRows.
func (g CellGrid) IsRectangular() bool {
	if len(g.Cells) != g.NRows {
		return false
	}
	for _, row := range g.Cells {
		if len(row) != g.NCols {
			return false
		}
	}
	return true
}

// FilledCells returns the number of cells containing non-blank text.
func (g CellGrid) FilledCells() int {
	n := 0
	for _, row := range g.Cells {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of the grid.
func (g CellGrid) Clone() CellGrid {
	out := g
	out.Cells = make([][]string, len(g.Cells))
	for i, row := range g.Cells {
		out.Cells[i] = make([]string, len(row))
		copy(out.Cells[i], row)
	}
	return out
}

// ExtractionResult is the final product for one table: the post-processed
// winning grid plus the consensus boundaries and score that produced it.
type ExtractionResult struct {
	TableID   string
	Page      int
	Region    BBox
	Grid      CellGrid
	Key       GridKey
	FinalRank int // winning grid's rank-sum total (lower is better)
	Columns   ConsensusBoundary
	Rows      ConsensusBoundary
}
