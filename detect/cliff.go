package detect

import (
	"math"

	"github.com/tsawler/concordia/model"
)

// CliffDetector proposes boundaries from whitespace valleys in the region's
// text density profile. It projects word boxes onto the axis, finds runs of
// bins whose density stays below an adaptive fraction of the peak, and
// emits a boundary at the centre of each interior valley.
//
// The density threshold adapts to the region's own profile rather than
// using a fixed constant, so sparse and dense tables are treated alike.
type CliffDetector struct {
	// ValleyThreshold is the fraction of peak density below which a bin
	// counts as whitespace.
	ValleyThreshold float64
}

// NewCliffDetector creates a cliff detector with default settings.
func NewCliffDetector() *CliffDetector {
	return &CliffDetector{ValleyThreshold: 0.3}
}

// Name returns "cliff".
func (d *CliffDetector) Name() model.MethodID {
	return "cliff"
}

// Detect builds the projection profile for the axis and converts interior
// whitespace valleys into boundary points. It declines when the region has
// too few words or no valley is wide enough to separate cells.
func (d *CliffDetector) Detect(region model.PageRegion, ctx model.TableContext, axis model.Axis) (model.BoundaryHypothesis, bool) {
	if len(region.Words) < 2 {
		return model.BoundaryHypothesis{}, false
	}

	binWidth := profileBinWidth(ctx)
	lo, hi := axisExtent(region.BBox, axis)
	span := hi - lo
	if span <= binWidth {
		return model.BoundaryHypothesis{}, false
	}

	profile := project(region.Words, axis, lo, binWidth, int(math.Ceil(span/binWidth)))

	peak := 0.0
	for _, v := range profile {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return model.BoundaryHypothesis{}, false
	}

	minValley := minValleyWidth(ctx, axis)
	valleys := findValleys(profile, peak*d.ValleyThreshold, binWidth, minValley)

	hyp := model.BoundaryHypothesis{Method: d.Name(), Axis: axis}
	for _, v := range valleys {
		centre := lo + (float64(v.start)+float64(v.end+1))/2*binWidth
		width := float64(v.end-v.start+1) * binWidth
		hyp.Points = append(hyp.Points, model.BoundaryPoint{
			Position:   centre,
			Confidence: math.Min(1.0, width/(2*minValley)),
			Method:     d.Name(),
		})
	}

	if len(hyp.Points) == 0 {
		return model.BoundaryHypothesis{}, false
	}
	return hyp, true
}

// profileBinWidth sizes the projection bins from the region's typography.
func profileBinWidth(ctx model.TableContext) float64 {
	if ctx.MedianWordHeight > 0 {
		return math.Max(ctx.MedianWordHeight/4, 0.5)
	}
	return 1.0
}

// minValleyWidth is the narrowest whitespace run that still separates
// cells: three quarters of the inter-word gap for columns (bin quantization
// eats into measured valley width), a fraction of the line height for rows.
func minValleyWidth(ctx model.TableContext, axis model.Axis) float64 {
	if axis == model.AxisColumn {
		if ctx.MedianWordGap > 0 {
			return ctx.MedianWordGap * 0.75
		}
		return 4.0
	}
	if ctx.MedianWordHeight > 0 {
		return ctx.MedianWordHeight / 4
	}
	return 2.0
}

func axisExtent(bbox model.BBox, axis model.Axis) (float64, float64) {
	if axis == model.AxisColumn {
		return bbox.Left(), bbox.Right()
	}
	return bbox.Bottom(), bbox.Top()
}

// project accumulates word coverage per bin along the axis.
func project(words []model.Word, axis model.Axis, lo, binWidth float64, bins int) []float64 {
	profile := make([]float64, bins)
	for _, w := range words {
		var wLo, wHi float64
		if axis == model.AxisColumn {
			wLo, wHi = w.BBox.Left(), w.BBox.Right()
		} else {
			wLo, wHi = w.BBox.Bottom(), w.BBox.Top()
		}
		first := int((wLo - lo) / binWidth)
		last := int((wHi - lo) / binWidth)
		for i := first; i <= last && i < bins; i++ {
			if i >= 0 {
				profile[i]++
			}
		}
	}
	return profile
}

// valley is a run of low-density bins, inclusive on both ends.
type valley struct {
	start, end int
}

// findValleys collects interior low-density runs at least minWidth wide.
// Runs touching either edge of the profile are margins, not separators.
func findValleys(profile []float64, threshold, binWidth, minWidth float64) []valley {
	var valleys []valley
	start := -1
	for i, v := range profile {
		if v <= threshold {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			valleys = appendValley(valleys, valley{start, i - 1}, len(profile), binWidth, minWidth)
			start = -1
		}
	}
	if start >= 0 {
		valleys = appendValley(valleys, valley{start, len(profile) - 1}, len(profile), binWidth, minWidth)
	}
	return valleys
}

func appendValley(valleys []valley, v valley, bins int, binWidth, minWidth float64) []valley {
	if v.start == 0 || v.end == bins-1 {
		return valleys // edge margin
	}
	if float64(v.end-v.start+1)*binWidth < minWidth {
		return valleys
	}
	return append(valleys, v)
}
