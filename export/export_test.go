package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/concordia/model"
)

func sampleResult(page int, cells [][]string) *model.ExtractionResult {
	grid := model.NewCellGrid("lattice", "nearest", len(cells), len(cells[0]))
	grid.Cells = cells
	grid.HeaderRows = 1
	return &model.ExtractionResult{
		TableID: "t-1",
		Page:    page,
		Grid:    grid,
		Key:     model.GridKey{Structure: "lattice", Cell: "nearest"},
	}
}

func TestExportCSV(t *testing.T) {
	results := []*model.ExtractionResult{
		sampleResult(1, [][]string{{"Name", "Value"}, {"alpha", "1.5"}}),
		sampleResult(2, [][]string{{"solo"}}),
	}

	got, err := NewExporter().ExportToString(results)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	want := "Name,Value\nalpha,1.5\n\nsolo\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExportCSVQuotesEmbeddedDelimiters(t *testing.T) {
	results := []*model.ExtractionResult{
		sampleResult(1, [][]string{{"a,b", "c\nd"}}),
	}

	got, err := NewExporter().ExportToString(results)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `"a,b"`) || !strings.Contains(got, "\"c\nd\"") {
		t.Errorf("embedded delimiters not quoted: %q", got)
	}
}

func TestExportTSV(t *testing.T) {
	results := []*model.ExtractionResult{
		sampleResult(1, [][]string{{"a", "b"}}),
	}

	got, err := NewExporterWithConfig(TSVExportConfig()).ExportToString(results)
	if err != nil {
		t.Fatal(err)
	}
	if got != "a\tb\n" {
		t.Errorf("got %q", got)
	}
}

func TestExportJSON(t *testing.T) {
	results := []*model.ExtractionResult{
		sampleResult(3, [][]string{{"h1", "h2"}, {"x", "y"}}),
	}

	got, err := NewExporterWithConfig(JSONExportConfig()).ExportToString(results)
	if err != nil {
		t.Fatal(err)
	}

	var tables []ExportedTable
	if err := json.Unmarshal([]byte(got), &tables); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("got %d tables", len(tables))
	}
	tab := tables[0]
	if tab.Page != 3 || tab.StructureMethod != "lattice" || tab.CellMethod != "nearest" {
		t.Errorf("metadata wrong: %+v", tab)
	}
	if tab.HeaderRows != 1 {
		t.Errorf("header rows = %d", tab.HeaderRows)
	}
	if tab.Cells[1][1] != "y" {
		t.Errorf("cells wrong: %v", tab.Cells)
	}
}

func TestExportJSONWithoutMetadata(t *testing.T) {
	cfg := JSONExportConfig()
	cfg.IncludeMetadata = false
	got, err := NewExporterWithConfig(cfg).ExportToString([]*model.ExtractionResult{
		sampleResult(3, [][]string{{"x"}}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "table_id") || strings.Contains(got, "lattice") {
		t.Errorf("metadata leaked: %s", got)
	}
}

func TestExportMarkdown(t *testing.T) {
	cfg := DefaultExportConfig()
	cfg.Format = ExportFormatMarkdown
	cfg.IncludeMetadata = false

	results := []*model.ExtractionResult{
		sampleResult(1, [][]string{{"Name", "Value"}, {"pipe|d", "multi\nline"}}),
	}
	got, err := NewExporterWithConfig(cfg).ExportToString(results)
	if err != nil {
		t.Fatal(err)
	}

	want := "| Name | Value |\n| --- | --- |\n| pipe\\|d | multi<br>line |\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExportXLSX(t *testing.T) {
	cfg := DefaultExportConfig()
	cfg.Format = ExportFormatXLSX

	results := []*model.ExtractionResult{
		sampleResult(1, [][]string{{"a", "b"}, {"c", "d"}}),
		sampleResult(2, [][]string{{"e"}}),
	}

	var buf bytes.Buffer
	if err := NewExporterWithConfig(cfg).Export(results, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("workbook unreadable: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Table1" || sheets[1] != "Table2" {
		t.Fatalf("sheets = %v", sheets)
	}

	v, err := f.GetCellValue("Table1", "B2")
	if err != nil || v != "d" {
		t.Errorf("Table1!B2 = %q (%v), want d", v, err)
	}
	v, err = f.GetCellValue("Table2", "A1")
	if err != nil || v != "e" {
		t.Errorf("Table2!A1 = %q (%v), want e", v, err)
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]ExportFormat{
		"csv": ExportFormatCSV, "TSV": ExportFormatTSV, "json": ExportFormatJSON,
		"md": ExportFormatMarkdown, "excel": ExportFormatXLSX,
	}
	for name, want := range cases {
		got, err := ParseFormat(name)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestFormatStringsAndExtensions(t *testing.T) {
	if ExportFormatMarkdown.String() != "markdown" || ExportFormatMarkdown.FileExtension() != ".md" {
		t.Error("markdown format metadata wrong")
	}
	if ExportFormat(99).String() != "unknown" {
		t.Error("out-of-range format not unknown")
	}
}
