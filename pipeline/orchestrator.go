package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/concordia/calibrate"
	"github.com/tsawler/concordia/cells"
	"github.com/tsawler/concordia/consensus"
	"github.com/tsawler/concordia/detect"
	"github.com/tsawler/concordia/model"
	"github.com/tsawler/concordia/postprocess"
	"github.com/tsawler/concordia/score"
)

// ConsensusMethod is the pseudo structure method naming the merged boundary
// set. It competes in scoring alongside each detector's own proposal.
const ConsensusMethod model.MethodID = "consensus"

// Stage is one step of the per-table state machine. Stages advance in one
// direction only; there are no retries within a run.
type Stage int

const (
	StageIdle Stage = iota
	StageDetectorsRunning
	StageCombining
	StageCellExtracting
	StageScoring
	StagePostProcessing
	StageDone
)

// advance moves the machine forward. Stages never move backward: a stale
// target is ignored rather than rewinding.
func (s *Stage) advance(to Stage) {
	if to > *s {
		*s = to
	}
}

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageDetectorsRunning:
		return "detectors_running"
	case StageCombining:
		return "combining"
	case StageCellExtracting:
		return "cell_extracting"
	case StageScoring:
		return "scoring"
	case StagePostProcessing:
		return "post_processing"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Orchestrator drives per-table extraction: activation-gated detector
// fan-out, boundary combination, cell-extractor fan-out, rank-sum
// selection, and post-processing, in that fixed order.
type Orchestrator struct {
	cfg        Config
	diag       Diagnostics
	detectors  *detect.Registry
	extractors *cells.Registry
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDiagnostics installs a diagnostics sink; the default discards events.
func WithDiagnostics(d Diagnostics) Option {
	return func(o *Orchestrator) { o.diag = d }
}

// WithDetectors substitutes a detector registry; the default is the
// package-level registry.
func WithDetectors(r *detect.Registry) Option {
	return func(o *Orchestrator) { o.detectors = r }
}

// WithExtractors substitutes an extractor registry.
func WithExtractors(r *cells.Registry) Option {
	return func(o *Orchestrator) { o.extractors = r }
}

// New creates an orchestrator for the given configuration.
func New(cfg Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{cfg: cfg, diag: NopDiagnostics{}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// detectorFor resolves a method from the configured or package registry.
func (o *Orchestrator) detectorFor(name model.MethodID) detect.Detector {
	if o.detectors != nil {
		return o.detectors.Get(name)
	}
	return detect.Get(name)
}

func (o *Orchestrator) extractorFor(name model.MethodID) cells.Extractor {
	if o.extractors != nil {
		return o.extractors.Get(name)
	}
	return cells.Get(name)
}

// detection holds one detector's output for both axes.
type detection struct {
	method     model.MethodID
	cols, rows model.BoundaryHypothesis
	hasCols    bool
	hasRows    bool
}

// structureCandidate is one boundary set entering cell extraction: a
// detector's own proposal or the merged consensus.
type structureCandidate struct {
	method     model.MethodID
	cols, rows model.ConsensusBoundary
}

// ExtractTable runs the full pipeline for one table region. A table-level
// failure (malformed context, no usable grids) is returned to the caller
// and never aborts sibling tables.
func (o *Orchestrator) ExtractTable(ctx context.Context, region model.PageRegion) (*model.ExtractionResult, error) {
	result, _, err := o.extract(ctx, region, nil)
	return result, err
}

// ExtractTableWithTruth runs the pipeline with a ground truth attached:
// the ground-truth accuracy metric joins scoring, and the per-structure-
// method accuracy observations needed by the calibration loop are returned
// alongside the result.
func (o *Orchestrator) ExtractTableWithTruth(ctx context.Context, region model.PageRegion, gt *model.GroundTruth) (*model.ExtractionResult, []calibrate.Observation, error) {
	return o.extract(ctx, region, gt)
}

func (o *Orchestrator) extract(ctx context.Context, region model.PageRegion, gt *model.GroundTruth) (*model.ExtractionResult, []calibrate.Observation, error) {
	stage := StageIdle

	tctx, err := model.ComputeContext(region)
	if err != nil {
		return nil, nil, fmt.Errorf("computing table context: %w", err)
	}

	// Detectors fan out concurrently against the shared read-only context.
	// No timeout and no cancellation by policy: a slow table runs to
	// completion, correctness over latency.
	stage.advance(StageDetectorsRunning)
	detections := o.runDetectors(region, tctx)

	stage.advance(StageCombining)
	candidates := o.combine(detections, tctx)

	stage.advance(StageCellExtracting)
	grids := o.runExtractors(candidates, region)
	if len(grids) == 0 {
		return nil, nil, fmt.Errorf("%s: no cell extractor produced a grid on page %d", stage, region.Page)
	}

	stage.advance(StageScoring)
	winner, scores, err := score.Select(grids, tctx, gt, o.priority())
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", stage, err)
	}

	stage.advance(StagePostProcessing)
	var winning model.CellGrid
	for _, g := range grids {
		if g.Key() == winner {
			winning = g
			break
		}
	}
	processed := postprocess.Apply(winning, tctx, o.cfg.PostProcessors)

	stage.advance(StageDone)

	result := &model.ExtractionResult{
		TableID:   uuid.NewString(),
		Page:      region.Page,
		Region:    region.BBox,
		Grid:      processed,
		Key:       winner,
		FinalRank: scores[winner].TotalRank,
	}
	for _, c := range candidates {
		if c.method == winner.Structure {
			result.Columns = c.cols
			result.Rows = c.rows
		}
	}

	var observations []calibrate.Observation
	if gt != nil {
		observations = o.observe(region, grids, *gt)
	}

	o.diag.TableDone(result.TableID, region.Page, winner)
	return result, observations, nil
}

// runDetectors invokes every active detector on both axes concurrently.
// A panicking detector is isolated and treated as a decline.
func (o *Orchestrator) runDetectors(region model.PageRegion, tctx model.TableContext) []detection {
	results := make([]detection, len(o.cfg.StructureMethods))
	ran := make([]bool, len(o.cfg.StructureMethods))

	var g errgroup.Group
	for i, method := range o.cfg.StructureMethods {
		i, method := i, method
		results[i].method = method

		d := o.detectorFor(method)
		if d == nil || !o.cfg.active(method, tctx) {
			continue
		}
		ran[i] = true

		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					o.diag.ExtractorFailed(method, fmt.Errorf("detector panic: %v", r))
					results[i].hasCols = false
					results[i].hasRows = false
				}
			}()
			results[i].cols, results[i].hasCols = d.Detect(region, tctx, model.AxisColumn)
			results[i].rows, results[i].hasRows = d.Detect(region, tctx, model.AxisRow)
			return nil
		})
	}
	g.Wait()

	for i, det := range results {
		if !ran[i] {
			continue // inactive or unregistered, not a decline
		}
		if !det.hasCols {
			o.diag.DetectorDeclined(det.method, model.AxisColumn)
		}
		if !det.hasRows {
			o.diag.DetectorDeclined(det.method, model.AxisRow)
		}
	}
	return results
}

// combine builds the structure candidates: each participating detector's
// own proposal (single-hypothesis pass-through) plus the merged consensus
// of everything.
func (o *Orchestrator) combine(detections []detection, tctx model.TableContext) []structureCandidate {
	var allCols, allRows []model.BoundaryHypothesis
	var candidates []structureCandidate

	for _, det := range detections {
		if !det.hasCols && !det.hasRows {
			continue
		}
		var own structureCandidate
		own.method = det.method
		if det.hasCols {
			allCols = append(allCols, det.cols)
			own.cols = consensus.Combine([]model.BoundaryHypothesis{det.cols}, model.AxisColumn, tctx, o.cfg.Multipliers)
		} else {
			own.cols = model.ConsensusBoundary{Axis: model.AxisColumn}
		}
		if det.hasRows {
			allRows = append(allRows, det.rows)
			own.rows = consensus.Combine([]model.BoundaryHypothesis{det.rows}, model.AxisRow, tctx, o.cfg.Multipliers)
		} else {
			own.rows = model.ConsensusBoundary{Axis: model.AxisRow}
		}
		candidates = append(candidates, own)
	}

	// Zero hypotheses on an axis is the degenerate (not error) case: the
	// consensus is empty and extraction yields a single row/column grid,
	// still subject to scoring.
	merged := structureCandidate{
		method: ConsensusMethod,
		cols:   consensus.Combine(allCols, model.AxisColumn, tctx, o.cfg.Multipliers),
		rows:   consensus.Combine(allRows, model.AxisRow, tctx, o.cfg.Multipliers),
	}
	candidates = append(candidates, merged)

	return candidates
}

// runExtractors fans out every active cell method over every structure
// candidate. Extractor failures are isolated per method.
func (o *Orchestrator) runExtractors(candidates []structureCandidate, region model.PageRegion) []model.CellGrid {
	type slot struct {
		grid model.CellGrid
		ok   bool
	}
	slots := make([]slot, len(candidates)*len(o.cfg.CellMethods))

	var g errgroup.Group
	for ci, cand := range candidates {
		for mi, method := range o.cfg.CellMethods {
			idx := ci*len(o.cfg.CellMethods) + mi
			cand, method := cand, method

			e := o.extractorFor(method)
			if e == nil {
				continue
			}

			g.Go(func() error {
				defer func() {
					if r := recover(); r != nil {
						o.diag.ExtractorFailed(method, fmt.Errorf("extractor panic: %v", r))
					}
				}()
				grid, _, err := e.Extract(cand.cols, cand.rows, region)
				if err != nil {
					o.diag.ExtractorFailed(method, err)
					return nil
				}
				grid.StructureMethod = cand.method
				slots[idx] = slot{grid: grid, ok: true}
				return nil
			})
		}
	}
	g.Wait()

	var grids []model.CellGrid
	for _, s := range slots {
		if s.ok {
			grids = append(grids, s.grid)
		}
	}
	return grids
}

// priority returns the structure tie-break order with the consensus
// pseudo-method implicitly first unless the config placed it.
func (o *Orchestrator) priority() []model.MethodID {
	for _, m := range o.cfg.Priority {
		if m == ConsensusMethod {
			return o.cfg.Priority
		}
	}
	return append([]model.MethodID{ConsensusMethod}, o.cfg.Priority...)
}

// observe derives the calibration observations: each structure method's
// best grid accuracy against the ground truth.
func (o *Orchestrator) observe(region model.PageRegion, grids []model.CellGrid, gt model.GroundTruth) []calibrate.Observation {
	best := make(map[model.MethodID]float64)
	var order []model.MethodID
	for _, g := range grids {
		method := g.StructureMethod
		if method == ConsensusMethod {
			continue // calibration weighs real detectors only
		}
		acc := gt.Accuracy(g.Cells)
		if cur, seen := best[method]; !seen || acc > cur {
			if !seen {
				order = append(order, method)
			}
			best[method] = acc
		}
	}

	fingerprint := calibrate.Fingerprint(region.Page, region.BBox, gt.Cells)
	observations := make([]calibrate.Observation, 0, len(order))
	for _, method := range order {
		observations = append(observations, calibrate.Observation{
			Table:    fingerprint,
			Method:   method,
			Accuracy: best[method],
		})
	}
	return observations
}
