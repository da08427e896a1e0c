package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/concordia/model"
)

// Overlay palette. Column boundaries draw in red, row boundaries in blue,
// ruled strokes in black, word boxes in light gray.
var (
	colBoundary = color.RGBA{R: 220, G: 40, B: 40, A: 255}
	rowBoundary = color.RGBA{R: 40, G: 80, B: 220, A: 255}
	strokeColor = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	wordFill    = color.RGBA{R: 225, G: 225, B: 225, A: 255}
	labelColor  = color.RGBA{R: 120, G: 120, B: 120, A: 255}
)

// Options controls overlay rendering.
type Options struct {
	// Scale converts PDF points to pixels. Zero means 2.0.
	Scale float64

	// Labels draws each boundary's PDF-space position next to it.
	Labels bool
}

// Overlay renders a diagnostic image of a table region: the word boxes and
// ruled strokes under the accepted consensus boundaries. The PDF's Y-up
// coordinates flip to the image's Y-down, so the visual top row of the
// table is at the top of the image.
func Overlay(region model.PageRegion, cols, rows model.ConsensusBoundary, opts Options) *image.RGBA {
	scale := opts.Scale
	if scale <= 0 {
		scale = 2.0
	}

	w := int(math.Ceil(region.BBox.Width*scale)) + 1
	h := int(math.Ceil(region.BBox.Height*scale)) + 1
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	toX := func(x float64) int { return int(math.Round((x - region.BBox.X) * scale)) }
	toY := func(y float64) int { return int(math.Round((region.BBox.Top() - y) * scale)) }

	for _, word := range region.Words {
		box := image.Rect(toX(word.BBox.Left()), toY(word.BBox.Top()), toX(word.BBox.Right()), toY(word.BBox.Bottom()))
		draw.Draw(img, box.Intersect(img.Bounds()), image.NewUniform(wordFill), image.Point{}, draw.Src)
	}

	for _, line := range region.Lines {
		drawSegment(img, toX(line.Start.X), toY(line.Start.Y), toX(line.End.X), toY(line.End.Y), strokeColor)
	}

	for _, p := range cols.Positions {
		x := toX(p)
		drawSegment(img, x, 0, x, h-1, colBoundary)
		if opts.Labels {
			drawLabel(img, x+2, 12, fmt.Sprintf("%.0f", p))
		}
	}
	for _, p := range rows.Positions {
		y := toY(p)
		drawSegment(img, 0, y, w-1, y, rowBoundary)
		if opts.Labels {
			drawLabel(img, 2, y-2, fmt.Sprintf("%.0f", p))
		}
	}

	return img
}

// drawSegment draws an axis-aligned or diagonal line with integer stepping.
func drawSegment(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	steps := max(dx, dy)
	if steps == 0 {
		setIfInside(img, x0, y0, c)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + (x1-x0)*i/steps
		y := y0 + (y1-y0)*i/steps
		setIfInside(img, x, y, c)
	}
}

func setIfInside(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func drawLabel(img *image.RGBA, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// WritePNG encodes the overlay as PNG.
func WritePNG(img image.Image, w io.Writer) error {
	return png.Encode(w, img)
}

// SavePNG writes the overlay to a PNG file.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating overlay file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding overlay: %w", err)
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
