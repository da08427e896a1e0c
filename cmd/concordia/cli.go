package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/tsawler/concordia/model"
	"github.com/tsawler/concordia/pageio"
	"github.com/tsawler/concordia/pipeline"
)

// Dependencies holds the configuration and streams for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Config pipeline.Config
	Diag   pipeline.Diagnostics
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Extract   ExtractCmd   `cmd:"" help:"Extract tables from a layout dump or PDF"`
	Calibrate CalibrateCmd `cmd:"" help:"Run the calibration loop against ground truth"`
	Render    RenderCmd    `cmd:"" help:"Render a diagnostic boundary overlay"`

	Config   string `help:"YAML config overlay" type:"path"`
	Artifact string `help:"Calibration artifact with per-method multipliers" type:"path"`
	Verbose  bool   `short:"v" help:"Log pipeline diagnostics to stderr"`
}

// loadRegions reads table regions from a layout dump (.json) or a PDF.
func loadRegions(path string) ([]model.PageRegion, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return pageio.LoadJSONFile(path)
	case ".pdf":
		return pageio.LoadPDF(path)
	default:
		return nil, fmt.Errorf("unsupported input %q: want a .json layout dump or a .pdf", path)
	}
}
