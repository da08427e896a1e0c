package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/concordia/model"
)

// exportXLSX writes one worksheet per table. Sheet names follow the
// configured prefix plus the 1-based table number.
func (e *Exporter) exportXLSX(results []*model.ExtractionResult, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, result := range results {
		sheet := fmt.Sprintf("%s%d", e.config.SheetPrefix, i+1)
		if i == 0 {
			// Rename the implicit default sheet instead of leaving it empty.
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("naming sheet %s: %w", sheet, err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("adding sheet %s: %w", sheet, err)
			}
		}

		for r, row := range result.Grid.Cells {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return fmt.Errorf("addressing row %d: %w", r+1, err)
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fmt.Errorf("writing row %d: %w", r+1, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
