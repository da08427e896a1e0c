package postprocess

import (
	"github.com/tsawler/concordia/model"
)

// Processor transforms a winning grid after selection. Processors must be
// idempotent: applying one to its own output is a no-op. Order between
// processors matters (caption stripping must precede continuation-row
// merging, for example), so the pipeline always applies them in the
// canonical order regardless of how a configuration lists them.
type Processor interface {
	// Name returns the processor's identifier.
	Name() string

	// Process returns the transformed grid. The input is never mutated.
	Process(grid model.CellGrid, ctx model.TableContext) model.CellGrid
}

// CanonicalOrder is the fixed application order for the built-in
// processors.
var CanonicalOrder = []string{
	"caption_strip",
	"header_separate",
	"continuation_merge",
	"inline_header_lift",
	"footnote_strip",
	"cell_clean",
}

// builtin maps processor names to constructors.
var builtin = map[string]func() Processor{
	"caption_strip":      func() Processor { return CaptionStrip{} },
	"header_separate":    func() Processor { return HeaderSeparate{} },
	"continuation_merge": func() Processor { return ContinuationMerge{} },
	"inline_header_lift": func() Processor { return InlineHeaderLift{} },
	"footnote_strip":     func() Processor { return FootnoteStrip{} },
	"cell_clean":         func() Processor { return CellClean{} },
}

// Get returns the built-in processor with the given name, or nil.
func Get(name string) Processor {
	if ctor, ok := builtin[name]; ok {
		return ctor()
	}
	return nil
}

// Chain resolves the requested processor names into canonical order,
// silently dropping unknown names. An empty request selects everything.
func Chain(names []string) []Processor {
	requested := make(map[string]bool, len(names))
	for _, n := range names {
		requested[n] = true
	}

	var chain []Processor
	for _, name := range CanonicalOrder {
		if len(names) == 0 || requested[name] {
			chain = append(chain, builtin[name]())
		}
	}
	return chain
}

// Apply runs the named processors over the grid in canonical order.
func Apply(grid model.CellGrid, ctx model.TableContext, names []string) model.CellGrid {
	out := grid
	for _, p := range Chain(names) {
		out = p.Process(out, ctx)
	}
	return out
}

// dropRow returns a copy of the grid without row r.
func dropRow(grid model.CellGrid, r int) model.CellGrid {
	out := grid.Clone()
	out.Cells = append(out.Cells[:r], out.Cells[r+1:]...)
	out.NRows--
	if out.NRows == 0 {
		// A grid never goes empty; keep one blank row.
		out.Cells = [][]string{make([]string, out.NCols)}
		out.NRows = 1
	}
	return out
}
