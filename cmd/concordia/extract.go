package main

import (
	"fmt"

	"github.com/tsawler/concordia/export"
	"github.com/tsawler/concordia/pipeline"
)

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Input  string `arg:"" help:"Layout dump (.json) or PDF file" type:"path"`
	Format string `short:"f" default:"csv" help:"Output format: csv, tsv, json, markdown, xlsx"`
	Output string `short:"o" help:"Output file (default stdout)" type:"path"`
}

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	if format == export.ExportFormatXLSX && c.Output == "" {
		return fmt.Errorf("xlsx output requires --output")
	}

	regions, err := loadRegions(c.Input)
	if err != nil {
		return err
	}
	if len(regions) == 0 {
		fmt.Fprintln(deps.Stdout, "No table regions found in input.")
		return nil
	}

	orch := pipeline.New(deps.Config, pipeline.WithDiagnostics(deps.Diag))
	results := orch.ExtractDocument(deps.Ctx, regions)
	if len(results) == 0 {
		return fmt.Errorf("no tables extracted from %s", c.Input)
	}

	cfg := export.DefaultExportConfig()
	cfg.Format = format
	if format == export.ExportFormatTSV {
		cfg.Delimiter = '\t'
	}
	exporter := export.NewExporterWithConfig(cfg)

	if c.Output != "" {
		if err := exporter.ExportToFile(results, c.Output); err != nil {
			return err
		}
		fmt.Fprintf(deps.Stderr, "Extracted %d table(s) to %s\n", len(results), c.Output)
		return nil
	}
	return exporter.Export(results, deps.Stdout)
}
