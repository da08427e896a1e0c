package pipeline

import (
	"log/slog"

	"github.com/tsawler/concordia/model"
)

// Diagnostics receives structured events from the orchestrator. Skipped
// tables, detector declines, and multiplier fallbacks are correctness
// signals, not cosmetic noise, so every event is surfaced rather than
// silently counted. Implementations must be safe for concurrent use.
//
// Diagnostics are a pure side channel: no event ever feeds back into
// extraction behaviour.
type Diagnostics interface {
	// TableDone fires when a table completes, with the winning key.
	TableDone(tableID string, page int, key model.GridKey)

	// TableSkipped fires when a table fails and is dropped from the run.
	TableSkipped(page int, region model.BBox, err error)

	// DetectorDeclined fires when an active detector finds no structure
	// on an axis.
	DetectorDeclined(method model.MethodID, axis model.Axis)

	// ExtractorFailed fires when a cell extractor errors; the method is
	// treated as having declined for the table.
	ExtractorFailed(method model.MethodID, err error)

	// MultiplierFallback fires when the calibration artifact could not be
	// loaded and preset defaults are used instead.
	MultiplierFallback(err error)
}

// NopDiagnostics discards every event.
type NopDiagnostics struct{}

func (NopDiagnostics) TableDone(string, int, model.GridKey)        {}
func (NopDiagnostics) TableSkipped(int, model.BBox, error)         {}
func (NopDiagnostics) DetectorDeclined(model.MethodID, model.Axis) {}
func (NopDiagnostics) ExtractorFailed(model.MethodID, error)       {}
func (NopDiagnostics) MultiplierFallback(error)                    {}

// SlogDiagnostics logs every event through a slog.Logger.
type SlogDiagnostics struct {
	Log *slog.Logger
}

// NewSlogDiagnostics wraps a logger; nil selects slog.Default().
func NewSlogDiagnostics(log *slog.Logger) SlogDiagnostics {
	if log == nil {
		log = slog.Default()
	}
	return SlogDiagnostics{Log: log}
}

func (d SlogDiagnostics) TableDone(tableID string, page int, key model.GridKey) {
	d.Log.Info("table extracted", "table", tableID, "page", page, "winner", key.String())
}

func (d SlogDiagnostics) TableSkipped(page int, region model.BBox, err error) {
	d.Log.Warn("table skipped", "page", page, "region", region, "error", err)
}

func (d SlogDiagnostics) DetectorDeclined(method model.MethodID, axis model.Axis) {
	d.Log.Debug("detector declined", "method", method, "axis", axis.String())
}

func (d SlogDiagnostics) ExtractorFailed(method model.MethodID, err error) {
	d.Log.Warn("cell extractor failed", "method", method, "error", err)
}

func (d SlogDiagnostics) MultiplierFallback(err error) {
	d.Log.Warn("calibration artifact unavailable, using default multipliers", "error", err)
}
