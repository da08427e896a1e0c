package pipeline

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/concordia/calibrate"
	"github.com/tsawler/concordia/model"
)

// ExtractDocument runs the per-table pipeline over every region under a
// bounded worker pool. A failing table is skipped with a diagnostic and
// never aborts its siblings; results come back ordered by page, then by
// region position within the page.
func (o *Orchestrator) ExtractDocument(ctx context.Context, regions []model.PageRegion) []*model.ExtractionResult {
	results, _ := o.extractAll(ctx, regions, nil)
	return results
}

// ExtractDocumentWithTruth is the calibration-run variant: truths[i] is the
// ground truth for regions[i] (nil entries run uncalibrated). The pooled
// observation batch feeds calibrate.Multipliers.
func (o *Orchestrator) ExtractDocumentWithTruth(ctx context.Context, regions []model.PageRegion, truths []*model.GroundTruth) ([]*model.ExtractionResult, []calibrate.Observation) {
	return o.extractAll(ctx, regions, truths)
}

func (o *Orchestrator) extractAll(ctx context.Context, regions []model.PageRegion, truths []*model.GroundTruth) ([]*model.ExtractionResult, []calibrate.Observation) {
	workers := o.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	slots := make([]*model.ExtractionResult, len(regions))
	var mu sync.Mutex
	var pooled []calibrate.Observation

	var g errgroup.Group
	g.SetLimit(workers)
	for i, region := range regions {
		i, region := i, region
		var gt *model.GroundTruth
		if i < len(truths) {
			gt = truths[i]
		}

		g.Go(func() error {
			result, obs, err := o.extract(ctx, region, gt)
			if err != nil {
				o.diag.TableSkipped(region.Page, region.BBox, err)
				return nil
			}
			slots[i] = result
			if len(obs) > 0 {
				mu.Lock()
				pooled = append(pooled, obs...)
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	results := make([]*model.ExtractionResult, 0, len(regions))
	for _, r := range slots {
		if r != nil {
			results = append(results, r)
		}
	}
	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Page != results[b].Page {
			return results[a].Page < results[b].Page
		}
		// Same page: top-to-bottom, then left-to-right.
		if results[a].Region.Top() != results[b].Region.Top() {
			return results[a].Region.Top() > results[b].Region.Top()
		}
		return results[a].Region.X < results[b].Region.X
	})
	return results, pooled
}
