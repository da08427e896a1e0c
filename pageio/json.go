package pageio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tsawler/concordia/model"
)

// layoutFile is the JSON layout-dump schema: pre-segmented table regions
// with their words and ruled strokes, typically produced by an upstream
// layout-analysis stage.
type layoutFile struct {
	Regions []regionRecord `json:"regions"`
}

type regionRecord struct {
	Page  int          `json:"page"`
	BBox  boxRecord    `json:"bbox"`
	Words []wordRecord `json:"words"`
	Lines []lineRecord `json:"lines,omitempty"`
}

type boxRecord struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type wordRecord struct {
	Text     string    `json:"text"`
	BBox     boxRecord `json:"bbox"`
	FontName string    `json:"font_name,omitempty"`
	FontSize float64   `json:"font_size,omitempty"`
}

type lineRecord struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Width float64 `json:"width"`
}

// LoadJSON reads table regions from a JSON layout dump.
func LoadJSON(r io.Reader) ([]model.PageRegion, error) {
	var file layoutFile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing layout dump: %w", err)
	}

	regions := make([]model.PageRegion, 0, len(file.Regions))
	for i, rec := range file.Regions {
		region := model.PageRegion{
			Page: rec.Page,
			BBox: model.NewBBox(rec.BBox.X, rec.BBox.Y, rec.BBox.Width, rec.BBox.Height),
		}
		if !region.BBox.IsValid() {
			return nil, fmt.Errorf("region %d: invalid bounding box %+v", i, rec.BBox)
		}
		for _, w := range rec.Words {
			region.Words = append(region.Words, model.Word{
				Text:     w.Text,
				BBox:     model.NewBBox(w.BBox.X, w.BBox.Y, w.BBox.Width, w.BBox.Height),
				FontName: w.FontName,
				FontSize: w.FontSize,
			})
		}
		for _, l := range rec.Lines {
			region.Lines = append(region.Lines, model.RuledLine{
				Start: model.Point{X: l.X1, Y: l.Y1},
				End:   model.Point{X: l.X2, Y: l.Y2},
				Width: l.Width,
			})
		}
		regions = append(regions, region)
	}
	return regions, nil
}

// LoadJSONFile reads table regions from a JSON layout dump on disk.
func LoadJSONFile(path string) ([]model.PageRegion, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening layout dump: %w", err)
	}
	defer f.Close()

	return LoadJSON(f)
}
