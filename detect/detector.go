package detect

import (
	"sort"
	"sync"

	"github.com/tsawler/concordia/model"
)

// Detector is the interface for structure detection methods. A detector
// examines a table region and proposes boundary positions along one axis.
//
// Detect returns (hypothesis, true) when the method finds structure and
// (zero value, false) when it declines. Declining is not an error: the
// combination engine simply proceeds with the remaining methods.
//
// Implementations must be pure and safe for concurrent invocation; the
// pipeline runs all active detectors in parallel against a shared read-only
// context.
type Detector interface {
	// Name returns the detector's method identifier.
	Name() model.MethodID

	// Detect proposes boundary positions for one axis of the region.
	Detect(region model.PageRegion, ctx model.TableContext, axis model.Axis) (model.BoundaryHypothesis, bool)
}

// Registry holds registered detectors keyed by method ID.
type Registry struct {
	mu        sync.RWMutex
	detectors map[model.MethodID]Detector
}

// NewRegistry creates an empty detector registry.
func NewRegistry() *Registry {
	return &Registry{detectors: make(map[model.MethodID]Detector)}
}

// Register adds a detector, replacing any existing one with the same name.
func (r *Registry) Register(d Detector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detectors[d.Name()] = d
}

// Get retrieves a detector by name, or nil when unknown.
func (r *Registry) Get(name model.MethodID) Detector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.detectors[name]
}

// List returns all registered method IDs, sorted.
func (r *Registry) List() []model.MethodID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]model.MethodID, 0, len(r.detectors))
	for name := range r.detectors {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

var globalRegistry = NewRegistry()

// Register registers a detector in the package-level registry.
func Register(d Detector) {
	globalRegistry.Register(d)
}

// Get retrieves a detector from the package-level registry.
func Get(name model.MethodID) Detector {
	return globalRegistry.Get(name)
}

// List returns the method IDs in the package-level registry.
func List() []model.MethodID {
	return globalRegistry.List()
}

func init() {
	Register(NewLatticeDetector())
	Register(NewCliffDetector())
	Register(NewEdgeDetector())
}
