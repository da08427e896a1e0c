package pageio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
)

const sampleDump = `{
	"regions": [
		{
			"page": 2,
			"bbox": {"x": 10, "y": 20, "width": 300, "height": 120},
			"words": [
				{"text": "alpha", "bbox": {"x": 15, "y": 100, "width": 40, "height": 10}, "font_name": "Helvetica", "font_size": 10},
				{"text": "beta", "bbox": {"x": 200, "y": 100, "width": 30, "height": 10}}
			],
			"lines": [
				{"x1": 10, "y1": 90, "x2": 310, "y2": 90, "width": 0.5}
			]
		},
		{
			"page": 3,
			"bbox": {"x": 0, "y": 0, "width": 100, "height": 50},
			"words": []
		}
	]
}`

func TestLoadJSON(t *testing.T) {
	regions, err := LoadJSON(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("got %d regions, want 2", len(regions))
	}

	r := regions[0]
	if r.Page != 2 || r.BBox.Width != 300 {
		t.Errorf("region = %+v", r)
	}
	if len(r.Words) != 2 || r.Words[0].Text != "alpha" || r.Words[0].FontName != "Helvetica" {
		t.Errorf("words = %+v", r.Words)
	}
	if len(r.Lines) != 1 || !r.Lines[0].IsHorizontal() {
		t.Errorf("lines = %+v", r.Lines)
	}
}

func TestLoadJSONRejectsInvalidBBox(t *testing.T) {
	dump := `{"regions": [{"page": 1, "bbox": {"x": 0, "y": 0, "width": 0, "height": 10}}]}`
	if _, err := LoadJSON(strings.NewReader(dump)); err == nil {
		t.Error("invalid bbox accepted")
	}
}

func TestLoadJSONRejectsMalformed(t *testing.T) {
	if _, err := LoadJSON(strings.NewReader("{oops")); err == nil {
		t.Error("malformed JSON accepted")
	}
}

func TestLoadJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := os.WriteFile(path, []byte(sampleDump), 0o644); err != nil {
		t.Fatal(err)
	}
	regions, err := LoadJSONFile(path)
	if err != nil || len(regions) != 2 {
		t.Fatalf("LoadJSONFile: %d regions, err %v", len(regions), err)
	}

	if _, err := LoadJSONFile(filepath.Join(t.TempDir(), "nope.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v", err)
	}
}

func glyph(s string, x, y, w, size float64) pdf.Text {
	return pdf.Text{S: s, X: x, Y: y, W: w, FontSize: size, Font: "F1"}
}

func TestAssembleWordsGroupsByGap(t *testing.T) {
	chars := []pdf.Text{
		glyph("c", 10, 100, 5, 10),
		glyph("a", 15.5, 100, 5, 10),
		glyph("t", 21, 100, 5, 10),
		// 8pt gap at font size 10 starts a new word.
		glyph("d", 34, 100, 5, 10),
		glyph("o", 39.5, 100, 5, 10),
		glyph("g", 45, 100, 5, 10),
	}

	words := assembleWords(chars)
	if len(words) != 2 {
		t.Fatalf("got %d words, want 2: %+v", len(words), words)
	}
	if words[0].Text != "cat" || words[1].Text != "dog" {
		t.Errorf("words = %q, %q", words[0].Text, words[1].Text)
	}
	if words[0].BBox.Left() != 10 || words[0].BBox.Right() != 26 {
		t.Errorf("word bbox = %+v", words[0].BBox)
	}
}

func TestAssembleWordsSplitsBaselines(t *testing.T) {
	chars := []pdf.Text{
		glyph("a", 10, 100, 5, 10),
		glyph("b", 15.5, 80, 5, 10), // next line down
	}

	words := assembleWords(chars)
	if len(words) != 2 {
		t.Fatalf("different baselines merged: %+v", words)
	}
	// Top of the page comes first.
	if words[0].Text != "a" {
		t.Errorf("reading order wrong: %+v", words)
	}
}

func TestAssembleWordsSkipsWhitespaceGlyphs(t *testing.T) {
	chars := []pdf.Text{
		glyph("a", 10, 100, 5, 10),
		glyph(" ", 15.5, 100, 3, 10),
		glyph("\n", 0, 0, 0, 0),
	}
	words := assembleWords(chars)
	if len(words) != 1 || words[0].Text != "a" {
		t.Errorf("whitespace glyphs leaked: %+v", words)
	}
}
