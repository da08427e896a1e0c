package calibrate

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/net/html"

	"github.com/tsawler/concordia/model"
)

// ParseHTMLTables extracts every <table> in an HTML document as a ground
// truth, in document order. Rows are <tr>, cells are <td> or <th>; nested
// markup inside a cell collapses to its text content.
func ParseHTMLTables(r io.Reader) ([]model.GroundTruth, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing ground-truth HTML: %w", err)
	}

	var truths []model.GroundTruth
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			truths = append(truths, model.GroundTruth{Cells: tableCells(n)})
			return // nested tables are not a thing in ground-truth files
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return truths, nil
}

// LoadHTMLFile reads ground-truth tables from an HTML file.
func LoadHTMLFile(path string) ([]model.GroundTruth, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ground-truth file: %w", err)
	}
	defer f.Close()
	return ParseHTMLTables(f)
}

func tableCells(table *html.Node) [][]string {
	var cells [][]string
	var findRows func(*html.Node)
	findRows = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var row []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					row = append(row, strings.TrimSpace(textContent(c)))
				}
			}
			if len(row) > 0 {
				cells = append(cells, row)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findRows(c)
		}
	}
	findRows(table)
	return cells
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

// LoadXLSXSheet reads one worksheet as a ground truth. An empty sheet name
// selects the workbook's first sheet.
func LoadXLSXSheet(path, sheet string) (model.GroundTruth, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return model.GroundTruth{}, fmt.Errorf("opening ground-truth workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return model.GroundTruth{}, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return model.GroundTruth{}, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	// GetRows returns ragged rows; pad to the widest so the ground truth
	// is rectangular like the grids it judges.
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, width)
		copy(cells[i], row)
	}
	return model.GroundTruth{Cells: cells}, nil
}
