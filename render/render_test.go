package render

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/concordia/model"
)

func sampleRegion() model.PageRegion {
	return model.PageRegion{
		Page: 1,
		BBox: model.NewBBox(0, 0, 100, 50),
		Words: []model.Word{
			{Text: "a", BBox: model.NewBBox(10, 30, 20, 10)},
			{Text: "b", BBox: model.NewBBox(60, 30, 20, 10)},
		},
		Lines: []model.RuledLine{
			{Start: model.Point{X: 0, Y: 25}, End: model.Point{X: 100, Y: 25}, Width: 1},
		},
	}
}

func TestOverlayDrawsBoundaries(t *testing.T) {
	region := sampleRegion()
	cols := model.ConsensusBoundary{Axis: model.AxisColumn, Positions: []float64{50}}
	rows := model.ConsensusBoundary{Axis: model.AxisRow, Positions: []float64{25}}

	img := Overlay(region, cols, rows, Options{Scale: 1})

	b := img.Bounds()
	if b.Dx() != 101 || b.Dy() != 51 {
		t.Fatalf("image size %dx%d, want 101x51", b.Dx(), b.Dy())
	}

	// Column boundary at x=50 spans the full height in red.
	if got := img.RGBAAt(50, 10); got != colBoundary {
		t.Errorf("pixel (50,10) = %v, want column color", got)
	}
	// Row boundary at PDF y=25 maps to image y=25 (region top is 50).
	if got := img.RGBAAt(10, 25); got != rowBoundary {
		t.Errorf("pixel (10,25) = %v, want row color", got)
	}
	// Word box fill: word "a" covers PDF (10..30, 30..40) → image y 10..20.
	if got := img.RGBAAt(15, 15); got != wordFill {
		t.Errorf("pixel (15,15) = %v, want word fill", got)
	}
}

func TestOverlayYAxisFlip(t *testing.T) {
	region := sampleRegion()
	// A boundary near the PDF top must land near the image top.
	rows := model.ConsensusBoundary{Axis: model.AxisRow, Positions: []float64{45}}

	img := Overlay(region, model.ConsensusBoundary{Axis: model.AxisColumn}, rows, Options{Scale: 1})
	if got := img.RGBAAt(3, 5); got != rowBoundary {
		t.Errorf("pixel (3,5) = %v, want row color at flipped position", got)
	}
}

func TestOverlayDefaultScale(t *testing.T) {
	img := Overlay(sampleRegion(), model.ConsensusBoundary{}, model.ConsensusBoundary{}, Options{})
	if img.Bounds().Dx() != 201 {
		t.Errorf("default scale width = %d, want 201", img.Bounds().Dx())
	}
}

func TestWriteAndSavePNG(t *testing.T) {
	img := Overlay(sampleRegion(), model.ConsensusBoundary{}, model.ConsensusBoundary{}, Options{Scale: 1})

	var buf bytes.Buffer
	if err := WritePNG(img, &buf); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("PNG round trip failed: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Error("decoded bounds differ")
	}

	path := filepath.Join(t.TempDir(), "overlay.png")
	if err := SavePNG(img, path); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("overlay file missing: %v", err)
	}
}
