package model

import (
	"math"
	"testing"
)

func word(text string, x, y, w, h float64) Word {
	return Word{Text: text, BBox: NewBBox(x, y, w, h)}
}

func TestBBoxAccessors(t *testing.T) {
	b := NewBBox(10, 20, 30, 40)

	if b.Left() != 10 || b.Right() != 40 {
		t.Errorf("Left/Right = %f/%f, want 10/40", b.Left(), b.Right())
	}
	if b.Bottom() != 20 || b.Top() != 60 {
		t.Errorf("Bottom/Top = %f/%f, want 20/60", b.Bottom(), b.Top())
	}
	if c := b.Center(); c.X != 25 || c.Y != 40 {
		t.Errorf("Center = %+v, want (25,40)", c)
	}
}

func TestBBoxContains(t *testing.T) {
	b := NewBBox(0, 0, 100, 50)

	if !b.Contains(Point{X: 50, Y: 25}) {
		t.Error("expected center point to be contained")
	}
	if b.Contains(Point{X: 150, Y: 25}) {
		t.Error("expected point outside to not be contained")
	}
}

func TestBBoxUnion(t *testing.T) {
	a := NewBBox(0, 0, 10, 10)
	b := NewBBox(20, 20, 10, 10)

	u := a.Union(b)
	if u.X != 0 || u.Y != 0 || u.Width != 30 || u.Height != 30 {
		t.Errorf("Union = %+v, want {0 0 30 30}", u)
	}
}

func TestRuledLineOrientation(t *testing.T) {
	h := RuledLine{Start: Point{X: 0, Y: 100}, End: Point{X: 200, Y: 100.5}}
	v := RuledLine{Start: Point{X: 50, Y: 0}, End: Point{X: 50, Y: 80}}

	if !h.IsHorizontal() || h.IsVertical() {
		t.Error("expected horizontal classification")
	}
	if !v.IsVertical() || v.IsHorizontal() {
		t.Error("expected vertical classification")
	}
}

func TestComputeContext(t *testing.T) {
	region := PageRegion{
		Page: 1,
		BBox: NewBBox(0, 0, 300, 100),
		Words: []Word{
			word("Name", 10, 80, 30, 10),
			word("Value", 100, 80, 30, 10),
			word("alpha", 10, 60, 30, 10),
			word("1.5", 100, 60, 20, 10),
		},
		Lines: []RuledLine{
			{Start: Point{X: 0, Y: 75}, End: Point{X: 300, Y: 75}, Width: 1.0},
			{Start: Point{X: 0, Y: 55}, End: Point{X: 300, Y: 55}, Width: 1.0},
		},
	}

	ctx, err := ComputeContext(region)
	if err != nil {
		t.Fatalf("ComputeContext failed: %v", err)
	}

	if ctx.MedianWordHeight != 10 {
		t.Errorf("MedianWordHeight = %f, want 10", ctx.MedianWordHeight)
	}
	if ctx.MedianWordGap != 60 {
		t.Errorf("MedianWordGap = %f, want 60", ctx.MedianWordGap)
	}
	if !ctx.HasRuledLines || ctx.MedianLineWidth != 1.0 {
		t.Errorf("line stats = (%v, %f), want (true, 1.0)", ctx.HasRuledLines, ctx.MedianLineWidth)
	}
	if ctx.WordCount != 4 || ctx.LineCount != 2 {
		t.Errorf("counts = (%d, %d), want (4, 2)", ctx.WordCount, ctx.LineCount)
	}
}

func TestComputeContextNoLines(t *testing.T) {
	region := PageRegion{
		Page:  1,
		BBox:  NewBBox(0, 0, 100, 100),
		Words: []Word{word("x", 10, 10, 5, 8)},
	}

	ctx, err := ComputeContext(region)
	if err != nil {
		t.Fatalf("ComputeContext failed: %v", err)
	}
	if ctx.HasRuledLines {
		t.Error("expected HasRuledLines false for a strokeless region")
	}
}

func TestComputeContextErrors(t *testing.T) {
	tests := []struct {
		name   string
		region PageRegion
	}{
		{"empty bbox", PageRegion{BBox: BBox{}, Words: []Word{word("x", 0, 0, 5, 5)}}},
		{"negative bbox", PageRegion{BBox: NewBBox(0, 0, -10, 10), Words: []Word{word("x", 0, 0, 5, 5)}}},
		{"no words", PageRegion{BBox: NewBBox(0, 0, 100, 100)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ComputeContext(tt.region); err == nil {
				t.Error("expected error for malformed region")
			}
		})
	}
}

func TestMedian(t *testing.T) {
	if m := Median(nil); m != 0 {
		t.Errorf("Median(nil) = %f, want 0", m)
	}
	if m := Median([]float64{3, 1, 2}); m != 2 {
		t.Errorf("Median odd = %f, want 2", m)
	}
	// Even count takes the lower middle (empirical quantile).
	if m := Median([]float64{1, 2, 3, 4}); m != 2 {
		t.Errorf("Median even = %f, want 2", m)
	}
}

func TestNewCellGridRectangular(t *testing.T) {
	g := NewCellGrid("lattice", "nearest", 3, 4)

	if !g.IsRectangular() {
		t.Fatal("expected freshly built grid to be rectangular")
	}
	if g.NRows != 3 || g.NCols != 4 {
		t.Errorf("dims = %dx%d, want 3x4", g.NRows, g.NCols)
	}
	// Degenerate dimensions are clamped to a 1x1 grid.
	d := NewCellGrid("lattice", "nearest", 0, 0)
	if d.NRows != 1 || d.NCols != 1 || !d.IsRectangular() {
		t.Errorf("degenerate grid = %dx%d", d.NRows, d.NCols)
	}
}

func TestCellGridClone(t *testing.T) {
	g := NewCellGrid("lattice", "nearest", 2, 2)
	g.Cells[0][0] = "original"

	c := g.Clone()
	c.Cells[0][0] = "changed"

	if g.Cells[0][0] != "original" {
		t.Error("Clone shares cell storage with the original")
	}
}

func TestGroundTruthAccuracy(t *testing.T) {
	gt := GroundTruth{Cells: [][]string{{"a", "b"}, {"c", "d"}}}

	if acc := gt.Accuracy([][]string{{"a", "b"}, {"c", "d"}}); acc != 1.0 {
		t.Errorf("exact match accuracy = %f, want 1.0", acc)
	}
	if acc := gt.Accuracy([][]string{{"a", "x"}, {"c", "d"}}); acc != 0.75 {
		t.Errorf("one mismatch accuracy = %f, want 0.75", acc)
	}
	// Whitespace differences are normalized away.
	if acc := gt.Accuracy([][]string{{" a ", "b"}, {"c", "d"}}); acc != 1.0 {
		t.Errorf("whitespace-normalized accuracy = %f, want 1.0", acc)
	}
	// Shape mismatch counts missing cells as wrong.
	if acc := gt.Accuracy([][]string{{"a"}}); math.Abs(acc-0.25) > 1e-9 {
		t.Errorf("shape mismatch accuracy = %f, want 0.25", acc)
	}
}
