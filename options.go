package concordia

import (
	"context"

	"github.com/tsawler/concordia/pipeline"
)

// ExtractOptions holds configuration for table extraction.
type ExtractOptions struct {
	// Page selection (1-indexed; nil means all pages)
	pages []int

	// Pipeline configuration overlays
	configPath   string
	artifactPath string

	// Post-processing selection (nil means the full chain)
	postProcessors []string

	// Concurrency (zero means one worker per CPU)
	workers int

	// Diagnostics sink and run context
	diag pipeline.Diagnostics
	ctx  context.Context
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		diag: pipeline.NopDiagnostics{},
		ctx:  context.Background(),
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}
	if o.postProcessors != nil {
		newOpts.postProcessors = append([]string(nil), o.postProcessors...)
	}
	return newOpts
}
