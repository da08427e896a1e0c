//go:build ocr

package cells

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/concordia/model"
)

// OCRExtractor re-reads each cell from a rasterised crop of the region via
// Tesseract. It is a rescue method for pages whose text layer is damaged or
// subsetted beyond use; the normal word-based extractors still run, and
// rank-sum scoring decides whose grid wins.
//
// Requires Tesseract at runtime and the "ocr" build tag. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
type OCRExtractor struct {
	raster   RegionRaster
	language string
}

// NewOCRExtractor creates an OCR extractor reading crops from the given
// raster source.
func NewOCRExtractor(raster RegionRaster) *OCRExtractor {
	return &OCRExtractor{raster: raster, language: "eng"}
}

// SetLanguage sets the Tesseract language(s), "+"-separated (e.g.
// "eng+fra"). Default is "eng".
func (e *OCRExtractor) SetLanguage(lang string) {
	e.language = lang
}

// Name returns "ocr".
func (e *OCRExtractor) Name() model.MethodID {
	return "ocr"
}

// Extract rasterises each cell of the boundary grid and recognizes it
// independently. The report counts cells, not words: OCR does not see the
// text layer, so there is nothing to leave unassigned.
func (e *OCRExtractor) Extract(cols, rows model.ConsensusBoundary, region model.PageRegion) (model.CellGrid, Report, error) {
	if e.raster == nil {
		return model.CellGrid{}, Report{}, fmt.Errorf("ocr extractor has no raster source")
	}

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(e.language); err != nil {
		return model.CellGrid{}, Report{}, fmt.Errorf("setting OCR language: %w", err)
	}

	grid := model.NewCellGrid("", e.Name(), rows.CellCount(), cols.CellCount())
	var report Report

	for r := 0; r < grid.NRows; r++ {
		for c := 0; c < grid.NCols; c++ {
			crop, err := e.raster.Crop(cellBox(cols, rows, region.BBox, r, c))
			if err != nil {
				report.Unassigned++
				continue
			}
			if err := client.SetImageFromBytes(crop); err != nil {
				report.Unassigned++
				continue
			}
			text, err := client.Text()
			if err != nil {
				report.Unassigned++
				continue
			}
			grid.Cells[r][c] = strings.TrimSpace(text)
			report.Assigned++
		}
	}
	return grid, report, nil
}
