// Package concordia provides a fluent API for consensus-based table
// extraction from PDF pages and layout dumps.
//
// Basic usage:
//
//	tables, err := concordia.Open("report.pdf").Tables()
//	if err != nil {
//	    // handle error
//	}
//
// With options:
//
//	csv, err := concordia.Open("layout.json").
//	    Pages(1, 2).
//	    WithMultipliers("multipliers.json").
//	    CSV()
//
// For advanced use cases, the lower-level pipeline package is also
// available.
package concordia

import (
	"github.com/tsawler/concordia/model"
)

// Open prepares an Extractor for a layout dump (.json) or PDF file. The
// file is read lazily, on the first terminal operation.
//
// Example:
//
//	tables, err := concordia.Open("report.pdf").Tables()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromRegions creates an Extractor over already-loaded table regions.
//
// Example:
//
//	tables, err := concordia.FromRegions(regions).Tables()
func FromRegions(regions []model.PageRegion) *Extractor {
	return &Extractor{
		regions: append([]model.PageRegion(nil), regions...),
		loaded:  true,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	tables := concordia.Must(concordia.Open("report.pdf").Tables())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
