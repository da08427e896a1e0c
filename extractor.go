package concordia

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tsawler/concordia/export"
	"github.com/tsawler/concordia/model"
	"github.com/tsawler/concordia/pageio"
	"github.com/tsawler/concordia/pipeline"
)

// Extractor provides a fluent interface for table extraction. Each
// configuration method returns a new Extractor instance, making it safe
// for concurrent use and allowing method chaining.
type Extractor struct {
	// Source
	filename string
	regions  []model.PageRegion
	loaded   bool

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of
// options. This ensures immutability: each chain method returns a new
// instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		regions:  e.regions,
		loaded:   e.loaded,
		options:  e.options.clone(),
		err:      e.err,
	}
}

// Pages restricts extraction to the given 1-indexed pages.
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append([]int(nil), pages...)
	return newExt
}

// WithConfig overlays a YAML configuration file onto the default preset.
func (e *Extractor) WithConfig(path string) *Extractor {
	newExt := e.clone()
	newExt.options.configPath = path
	return newExt
}

// WithMultipliers overlays the calibration artifact's per-method
// multipliers. A missing or corrupt artifact falls back to presets.
func (e *Extractor) WithMultipliers(path string) *Extractor {
	newExt := e.clone()
	newExt.options.artifactPath = path
	return newExt
}

// WithPostProcessors selects the post-processing steps to apply. The
// application order is always canonical regardless of the order given.
func (e *Extractor) WithPostProcessors(names ...string) *Extractor {
	newExt := e.clone()
	newExt.options.postProcessors = append([]string(nil), names...)
	return newExt
}

// Workers bounds document-level concurrency. Zero or negative means one
// worker per CPU.
func (e *Extractor) Workers(n int) *Extractor {
	newExt := e.clone()
	newExt.options.workers = n
	return newExt
}

// WithDiagnostics installs a diagnostics sink for the run.
func (e *Extractor) WithDiagnostics(d pipeline.Diagnostics) *Extractor {
	newExt := e.clone()
	newExt.options.diag = d
	return newExt
}

// WithContext sets the context used by terminal operations.
func (e *Extractor) WithContext(ctx context.Context) *Extractor {
	newExt := e.clone()
	newExt.options.ctx = ctx
	return newExt
}

// ensureRegions loads the source file if regions are not yet in memory.
func (e *Extractor) ensureRegions() error {
	if e.loaded {
		return nil
	}
	if e.filename == "" {
		return fmt.Errorf("no input specified")
	}

	regions, err := loadSource(e.filename)
	if err != nil {
		return err
	}
	e.regions = regions
	e.loaded = true
	return nil
}

func loadSource(path string) ([]model.PageRegion, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return pageio.LoadJSONFile(path)
	}
	return pageio.LoadPDF(path)
}

// selectRegions applies the page filter.
func (e *Extractor) selectRegions() []model.PageRegion {
	if len(e.options.pages) == 0 {
		return e.regions
	}
	wanted := make(map[int]bool, len(e.options.pages))
	for _, p := range e.options.pages {
		wanted[p] = true
	}
	var out []model.PageRegion
	for _, r := range e.regions {
		if wanted[r.Page] {
			out = append(out, r)
		}
	}
	return out
}

// buildConfig assembles the pipeline configuration from the chained
// options.
func (e *Extractor) buildConfig() (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	if e.options.configPath != "" {
		fc, err := pipeline.LoadFileConfig(e.options.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = fc.Apply(cfg)
	}
	if e.options.artifactPath != "" {
		cfg.LoadMultipliers(e.options.artifactPath, e.options.diag)
	}
	if e.options.postProcessors != nil {
		cfg.PostProcessors = append([]string(nil), e.options.postProcessors...)
	}
	if e.options.workers != 0 {
		cfg.Workers = e.options.workers
	}
	return cfg, nil
}

// Tables runs the pipeline and returns one result per successfully
// extracted table, ordered by page.
func (e *Extractor) Tables() ([]*model.ExtractionResult, error) {
	if e.err != nil {
		return nil, e.err
	}
	if err := e.ensureRegions(); err != nil {
		return nil, err
	}

	regions := e.selectRegions()
	if len(regions) == 0 {
		return nil, fmt.Errorf("no table regions to extract")
	}

	cfg, err := e.buildConfig()
	if err != nil {
		return nil, err
	}

	orch := pipeline.New(cfg, pipeline.WithDiagnostics(e.options.diag))
	return orch.ExtractDocument(e.options.ctx, regions), nil
}

// CSV extracts all tables and renders them as CSV, tables separated by a
// blank line.
func (e *Extractor) CSV() (string, error) {
	return e.exportString(export.CSVExportConfig())
}

// TSV extracts all tables and renders them as TSV.
func (e *Extractor) TSV() (string, error) {
	return e.exportString(export.TSVExportConfig())
}

// JSON extracts all tables and renders them as a JSON array of table
// records.
func (e *Extractor) JSON() (string, error) {
	return e.exportString(export.JSONExportConfig())
}

// Markdown extracts all tables and renders them as pipe tables.
func (e *Extractor) Markdown() (string, error) {
	cfg := export.DefaultExportConfig()
	cfg.Format = export.ExportFormatMarkdown
	cfg.IncludeMetadata = false
	return e.exportString(cfg)
}

// WriteXLSX extracts all tables and writes them to an Excel workbook, one
// sheet per table.
func (e *Extractor) WriteXLSX(path string) error {
	results, err := e.Tables()
	if err != nil {
		return err
	}
	cfg := export.DefaultExportConfig()
	cfg.Format = export.ExportFormatXLSX
	return export.NewExporterWithConfig(cfg).ExportToFile(results, path)
}

func (e *Extractor) exportString(cfg export.ExportConfig) (string, error) {
	results, err := e.Tables()
	if err != nil {
		return "", err
	}
	return export.NewExporterWithConfig(cfg).ExportToString(results)
}
