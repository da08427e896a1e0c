//go:build !ocr

package cells

import (
	"errors"

	"github.com/tsawler/concordia/model"
)

// ErrOCRNotEnabled is returned when the OCR extractor is invoked but OCR
// support was not compiled in. Rebuild with -tags ocr to enable it; this
// requires Tesseract on the system.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// OCRExtractor is the stub used when the "ocr" build tag is not set. It
// keeps default builds free of cgo; Extract always fails with
// ErrOCRNotEnabled, which the pipeline treats as a method decline.
type OCRExtractor struct{}

// NewOCRExtractor creates the stub OCR extractor. The raster source is
// accepted for signature compatibility and ignored.
func NewOCRExtractor(raster RegionRaster) *OCRExtractor {
	return &OCRExtractor{}
}

// SetLanguage is a no-op in the stub.
func (e *OCRExtractor) SetLanguage(lang string) {}

// Name returns "ocr".
func (e *OCRExtractor) Name() model.MethodID {
	return "ocr"
}

// Extract always returns ErrOCRNotEnabled.
func (e *OCRExtractor) Extract(cols, rows model.ConsensusBoundary, region model.PageRegion) (model.CellGrid, Report, error) {
	return model.CellGrid{}, Report{}, ErrOCRNotEnabled
}
