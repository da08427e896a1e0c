package calibrate

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/tsawler/concordia/model"
)

// Fingerprint derives a stable identifier for one table from its page,
// region, and cell contents, so observations recorded across runs attach to
// the same history row regardless of generated table IDs.
func Fingerprint(page int, region model.BBox, cells [][]string) string {
	h := xxhash.New()
	fmt.Fprintf(h, "p%d|%.1f,%.1f,%.1f,%.1f|", page, region.X, region.Y, region.Width, region.Height)
	for _, row := range cells {
		for _, cell := range row {
			h.WriteString(cell)
			h.Write([]byte{0x1f})
		}
		h.Write([]byte{0x1e})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
