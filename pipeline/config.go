package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/concordia/calibrate"
	"github.com/tsawler/concordia/model"
	"github.com/tsawler/concordia/postprocess"
)

// Predicate gates whether a detection method runs at all for a table,
// based on its context.
type Predicate func(model.TableContext) bool

// Config holds the pipeline configuration for one run. Presets are frozen
// value types; multipliers are overlaid from the calibration artifact at
// start-up, with the artifact winning on conflict.
type Config struct {
	// StructureMethods lists the active structure detectors.
	StructureMethods []model.MethodID

	// CellMethods lists the active cell extractors.
	CellMethods []model.MethodID

	// PostProcessors selects the post-processing steps. Application order
	// is always canonical regardless of the order given here; empty means
	// the full chain.
	PostProcessors []string

	// Activations maps methods to their activation predicates. Methods
	// without an entry always run.
	Activations map[model.MethodID]Predicate

	// Multipliers are the per-method confidence multipliers the
	// combination engine applies. Absent entries default to 1.0.
	Multipliers map[model.MethodID]float64

	// Priority is the declared structure-method order used to break
	// rank-sum ties deterministically.
	Priority []model.MethodID

	// Workers bounds document-level concurrency. Zero or negative means
	// one worker per CPU.
	Workers int
}

// DefaultConfig returns the standard preset: all three reference detectors
// with the lattice/cliff mutual exclusion, both word-based extractors, and
// the full post-processing chain.
//
// The lattice and cliff families are mutually exclusive by design: lattice
// runs only when the region has ruled lines, cliff only when it does not.
// Running both on the same table adds redundant noise, never signal.
func DefaultConfig() Config {
	return Config{
		StructureMethods: []model.MethodID{"lattice", "cliff", "edges"},
		CellMethods:      []model.MethodID{"nearest", "flow"},
		PostProcessors:   append([]string(nil), postprocess.CanonicalOrder...),
		Activations: map[model.MethodID]Predicate{
			"lattice": func(ctx model.TableContext) bool { return ctx.HasRuledLines },
			"cliff":   func(ctx model.TableContext) bool { return !ctx.HasRuledLines },
		},
		Multipliers: map[model.MethodID]float64{},
		Priority:    []model.MethodID{"lattice", "edges", "cliff"},
	}
}

// FileConfig is the YAML overlay format. Only set fields override the
// preset.
type FileConfig struct {
	StructureMethods []string           `yaml:"structure_methods"`
	CellMethods      []string           `yaml:"cell_methods"`
	PostProcessors   []string           `yaml:"post_processors"`
	Multipliers      map[string]float64 `yaml:"multipliers"`
	Priority         []string           `yaml:"priority"`
	Workers          int                `yaml:"workers"`
	Artifact         string             `yaml:"artifact"`
}

// LoadFileConfig reads a YAML overlay from path.
func LoadFileConfig(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("reading config: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return fc, nil
}

// Apply overlays the file configuration onto a preset and returns the
// merged config. List fields replace; multipliers merge entry-wise with
// the file winning.
func (fc FileConfig) Apply(cfg Config) Config {
	if len(fc.StructureMethods) > 0 {
		cfg.StructureMethods = toMethodIDs(fc.StructureMethods)
	}
	if len(fc.CellMethods) > 0 {
		cfg.CellMethods = toMethodIDs(fc.CellMethods)
	}
	if len(fc.PostProcessors) > 0 {
		cfg.PostProcessors = append([]string(nil), fc.PostProcessors...)
	}
	if len(fc.Priority) > 0 {
		cfg.Priority = toMethodIDs(fc.Priority)
	}
	if fc.Workers != 0 {
		cfg.Workers = fc.Workers
	}
	if len(fc.Multipliers) > 0 {
		merged := make(map[model.MethodID]float64, len(cfg.Multipliers)+len(fc.Multipliers))
		for k, v := range cfg.Multipliers {
			merged[k] = v
		}
		for k, v := range fc.Multipliers {
			merged[model.MethodID(k)] = v
		}
		cfg.Multipliers = merged
	}
	return cfg
}

// LoadMultipliers overlays the calibration artifact at path onto the
// config's preset multipliers, the artifact winning on conflict. A missing
// or corrupt artifact leaves the presets untouched and reports the
// fallback through diagnostics; it is never fatal.
func (c *Config) LoadMultipliers(path string, diag Diagnostics) {
	loaded, err := calibrate.LoadArtifact(path)
	if err != nil {
		diag.MultiplierFallback(err)
		return
	}

	merged := make(map[model.MethodID]float64, len(c.Multipliers)+len(loaded))
	for k, v := range c.Multipliers {
		merged[k] = v
	}
	for k, v := range loaded {
		merged[k] = v
	}
	c.Multipliers = merged
}

// active reports whether a method's activation predicate admits the table.
func (c Config) active(method model.MethodID, ctx model.TableContext) bool {
	if pred, ok := c.Activations[method]; ok {
		return pred(ctx)
	}
	return true
}

func toMethodIDs(names []string) []model.MethodID {
	out := make([]model.MethodID, len(names))
	for i, n := range names {
		out[i] = model.MethodID(n)
	}
	return out
}
