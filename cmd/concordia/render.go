package main

import (
	"fmt"

	"github.com/tsawler/concordia/pipeline"
	"github.com/tsawler/concordia/render"
)

// RenderCmd is the "render" subcommand.
type RenderCmd struct {
	Input  string  `arg:"" help:"Layout dump (.json) or PDF file" type:"path"`
	Output string  `short:"o" default:"overlay.png" help:"Overlay PNG path" type:"path"`
	Table  int     `short:"t" default:"0" help:"Region index within the input"`
	Scale  float64 `default:"2" help:"Points-to-pixels scale"`
	Labels bool    `help:"Draw boundary position labels"`
}

// Run executes the render command.
func (c *RenderCmd) Run(deps *Dependencies) error {
	regions, err := loadRegions(c.Input)
	if err != nil {
		return err
	}
	if c.Table < 0 || c.Table >= len(regions) {
		return fmt.Errorf("region index %d out of range: input has %d region(s)", c.Table, len(regions))
	}
	region := regions[c.Table]

	orch := pipeline.New(deps.Config, pipeline.WithDiagnostics(deps.Diag))
	result, err := orch.ExtractTable(deps.Ctx, region)
	if err != nil {
		return err
	}

	img := render.Overlay(region, result.Columns, result.Rows, render.Options{
		Scale:  c.Scale,
		Labels: c.Labels,
	})
	if err := render.SavePNG(img, c.Output); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %s (winner %s, %dx%d cells)\n",
		c.Output, result.Key, result.Grid.NRows, result.Grid.NCols)
	return nil
}
