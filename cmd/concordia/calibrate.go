package main

import (
	"fmt"
	"sort"

	"github.com/tsawler/concordia/calibrate"
	"github.com/tsawler/concordia/model"
	"github.com/tsawler/concordia/pipeline"
)

// CalibrateCmd is the "calibrate" subcommand. It extracts the input with
// ground truth attached, folds the new observations into the observation
// store, and rewrites the multiplier artifact from the full history.
type CalibrateCmd struct {
	Input string `arg:"" help:"Layout dump (.json) or PDF file" type:"path"`
	Truth string `arg:"" help:"Ground-truth HTML file, tables in region order" type:"path"`
	DB    string `default:"concordia.db" help:"Observation store path" type:"path"`
	Out   string `default:"multipliers.json" help:"Artifact output path" type:"path"`
}

// Run executes the calibrate command.
func (c *CalibrateCmd) Run(deps *Dependencies) error {
	regions, err := loadRegions(c.Input)
	if err != nil {
		return err
	}
	truths, err := calibrate.LoadHTMLFile(c.Truth)
	if err != nil {
		return err
	}
	if len(truths) < len(regions) {
		fmt.Fprintf(deps.Stderr, "Warning: %d regions but only %d ground-truth tables; extras run uncalibrated\n",
			len(regions), len(truths))
	}

	paired := make([]*model.GroundTruth, len(regions))
	for i := range regions {
		if i < len(truths) {
			paired[i] = &truths[i]
		}
	}

	orch := pipeline.New(deps.Config, pipeline.WithDiagnostics(deps.Diag))
	_, observations := orch.ExtractDocumentWithTruth(deps.Ctx, regions, paired)
	if len(observations) == 0 {
		return fmt.Errorf("no calibration observations produced from %s", c.Input)
	}

	store, err := calibrate.OpenStore(c.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Record(deps.Ctx, observations); err != nil {
		return err
	}
	history, err := store.Observations(deps.Ctx)
	if err != nil {
		return err
	}
	tables, err := store.TableCount(deps.Ctx)
	if err != nil {
		return err
	}

	multipliers := calibrate.Multipliers(history, deps.Config.Priority)
	if err := calibrate.SaveArtifact(c.Out, multipliers, tables); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Calibrated over %d table(s):\n", tables)
	methods := make([]model.MethodID, 0, len(multipliers))
	for method := range multipliers {
		methods = append(methods, method)
	}
	sort.Slice(methods, func(a, b int) bool { return methods[a] < methods[b] })
	for _, method := range methods {
		fmt.Fprintf(deps.Stdout, "  %-12s %.3f\n", method, multipliers[method])
	}
	fmt.Fprintf(deps.Stdout, "Wrote %s\n", c.Out)
	return nil
}
