package cells

import (
	"sort"
	"sync"

	"github.com/tsawler/concordia/model"
)

// Extractor is the interface for cell extraction methods. Given consensus
// boundaries for both axes, an extractor fills the induced grid with text
// from the region's words.
//
// The grid's dimensions are fixed by the boundaries: boundary count + 1
// cells per axis. Every word inside the region must either land in exactly
// one cell or be counted in the report's Unassigned tally; silently dropping
// text is a correctness defect.
//
// Implementations must be pure; the pipeline runs all active extractors in
// parallel against the same consensus.
type Extractor interface {
	// Name returns the extractor's method identifier.
	Name() model.MethodID

	// Extract fills the boundary grid with the region's words.
	Extract(cols, rows model.ConsensusBoundary, region model.PageRegion) (model.CellGrid, Report, error)
}

// Report is the build report for one extracted grid.
type Report struct {
	Assigned   int // words placed in a cell
	Unassigned int // words that could not be placed (outside the region)
}

// Registry holds registered extractors keyed by method ID.
type Registry struct {
	mu         sync.RWMutex
	extractors map[model.MethodID]Extractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[model.MethodID]Extractor)}
}

// Register adds an extractor, replacing any existing one with the same name.
func (r *Registry) Register(e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[e.Name()] = e
}

// Get retrieves an extractor by name, or nil when unknown.
func (r *Registry) Get(name model.MethodID) Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.extractors[name]
}

// List returns all registered method IDs, sorted.
func (r *Registry) List() []model.MethodID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]model.MethodID, 0, len(r.extractors))
	for name := range r.extractors {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

var globalRegistry = NewRegistry()

// Register registers an extractor in the package-level registry.
func Register(e Extractor) {
	globalRegistry.Register(e)
}

// Get retrieves an extractor from the package-level registry.
func Get(name model.MethodID) Extractor {
	return globalRegistry.Get(name)
}

// List returns the method IDs in the package-level registry.
func List() []model.MethodID {
	return globalRegistry.List()
}

func init() {
	Register(NewNearestExtractor())
	Register(NewFlowExtractor())
}

// cellIndex locates the cell for a point along one axis: the number of
// boundaries strictly below it for columns, above it for rows (row 0 is the
// visual top, which has the largest Y in PDF coordinates).
func cellIndex(boundaries []float64, value float64, rowAxis bool) int {
	if rowAxis {
		idx := 0
		for _, b := range boundaries {
			if b > value {
				idx++
			}
		}
		return idx
	}
	idx := 0
	for _, b := range boundaries {
		if b < value {
			idx++
		}
	}
	return idx
}

// placeWords assigns every region word to a cell by its centre point. Words
// whose boxes fall outside the region entirely are tallied as unassigned.
// Returns a rows×cols matrix of word lists plus the report.
func placeWords(cols, rows model.ConsensusBoundary, region model.PageRegion) ([][][]model.Word, Report) {
	nRows, nCols := rows.CellCount(), cols.CellCount()
	placed := make([][][]model.Word, nRows)
	for i := range placed {
		placed[i] = make([][]model.Word, nCols)
	}

	var report Report
	for _, w := range region.Words {
		if !region.BBox.Intersects(w.BBox) {
			report.Unassigned++
			continue
		}
		centre := w.BBox.Center()
		r := cellIndex(rows.Positions, centre.Y, true)
		c := cellIndex(cols.Positions, centre.X, false)
		placed[r][c] = append(placed[r][c], w)
		report.Assigned++
	}
	return placed, report
}

// readingOrder sorts words top-to-bottom, then left-to-right.
func readingOrder(words []model.Word) {
	sort.Slice(words, func(i, j int) bool {
		yi, yj := words[i].BBox.Center().Y, words[j].BBox.Center().Y
		if dy := yi - yj; dy > 0.5 || dy < -0.5 {
			return yi > yj
		}
		return words[i].BBox.Left() < words[j].BBox.Left()
	})
}
