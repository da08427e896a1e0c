package model

import "math"

// Word is a positioned run of text on a page. Words are the input unit for
// structure detectors and cell extractors.
type Word struct {
	Text     string
	BBox     BBox
	FontName string
	FontSize float64
}

// RuledLine is a vector stroke extracted from page graphics. Width is the
// stroke thickness in points.
type RuledLine struct {
	Start Point
	End   Point
	Width float64
}

// Length returns the stroke length.
func (l RuledLine) Length() float64 {
	return l.Start.Distance(l.End)
}

// IsHorizontal reports whether the stroke runs predominantly left-right.
// Slightly skewed strokes (up to 2 points of drift) still count.
func (l RuledLine) IsHorizontal() bool {
	return math.Abs(l.Start.Y-l.End.Y) <= 2.0 &&
		math.Abs(l.Start.X-l.End.X) > math.Abs(l.Start.Y-l.End.Y)
}

// IsVertical reports whether the stroke runs predominantly top-bottom.
func (l RuledLine) IsVertical() bool {
	return math.Abs(l.Start.X-l.End.X) <= 2.0 &&
		math.Abs(l.Start.Y-l.End.Y) > math.Abs(l.Start.X-l.End.X)
}

// PageRegion is the per-table input bundle: the region's bounding box, the
// words inside it, and any vector strokes that intersect it.
type PageRegion struct {
	Page  int
	BBox  BBox
	Words []Word
	Lines []RuledLine
}
