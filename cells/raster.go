package cells

import "github.com/tsawler/concordia/model"

// RegionRaster supplies rendered image crops of a page region for the OCR
// extraction method. Implementations return encoded image bytes (PNG, TIFF,
// or JPEG) for the requested sub-box of the table region.
type RegionRaster interface {
	Crop(bbox model.BBox) ([]byte, error)
}

// cellBox returns the sub-box of the region occupied by grid cell (r, c).
// Row 0 is the visual top of the table.
func cellBox(cols, rows model.ConsensusBoundary, bbox model.BBox, r, c int) model.BBox {
	xs := make([]float64, 0, len(cols.Positions)+2)
	xs = append(xs, bbox.Left())
	xs = append(xs, cols.Positions...)
	xs = append(xs, bbox.Right())

	// Y edges top-down: region top, boundaries in descending order, region
	// bottom.
	ys := make([]float64, 0, len(rows.Positions)+2)
	ys = append(ys, bbox.Top())
	for i := len(rows.Positions) - 1; i >= 0; i-- {
		ys = append(ys, rows.Positions[i])
	}
	ys = append(ys, bbox.Bottom())

	return model.NewBBox(xs[c], ys[r+1], xs[c+1]-xs[c], ys[r]-ys[r+1])
}
