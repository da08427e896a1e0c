package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tsawler/concordia/model"
)

// ExportFormat defines the available export formats.
type ExportFormat int

const (
	// ExportFormatCSV exports as comma-separated values.
	ExportFormatCSV ExportFormat = iota
	// ExportFormatTSV exports as tab-separated values.
	ExportFormatTSV
	// ExportFormatJSON exports as a JSON array of table records.
	ExportFormatJSON
	// ExportFormatMarkdown exports as GitHub-flavored pipe tables.
	ExportFormatMarkdown
	// ExportFormatXLSX exports as an Excel workbook, one sheet per table.
	ExportFormatXLSX
)

// String returns a human-readable representation of the export format.
func (ef ExportFormat) String() string {
	switch ef {
	case ExportFormatCSV:
		return "csv"
	case ExportFormatTSV:
		return "tsv"
	case ExportFormatJSON:
		return "json"
	case ExportFormatMarkdown:
		return "markdown"
	case ExportFormatXLSX:
		return "xlsx"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format.
func (ef ExportFormat) FileExtension() string {
	switch ef {
	case ExportFormatCSV:
		return ".csv"
	case ExportFormatTSV:
		return ".tsv"
	case ExportFormatJSON:
		return ".json"
	case ExportFormatMarkdown:
		return ".md"
	case ExportFormatXLSX:
		return ".xlsx"
	default:
		return ".txt"
	}
}

// ParseFormat maps a format name (as accepted on the command line) to its
// ExportFormat.
func ParseFormat(name string) (ExportFormat, error) {
	switch strings.ToLower(name) {
	case "csv":
		return ExportFormatCSV, nil
	case "tsv":
		return ExportFormatTSV, nil
	case "json":
		return ExportFormatJSON, nil
	case "markdown", "md":
		return ExportFormatMarkdown, nil
	case "xlsx", "excel":
		return ExportFormatXLSX, nil
	default:
		return 0, fmt.Errorf("unknown export format %q", name)
	}
}

// ExportConfig holds configuration options for export.
type ExportConfig struct {
	// Format specifies the export format.
	Format ExportFormat

	// Delimiter specifies the field delimiter for CSV export.
	Delimiter rune

	// IncludeMetadata adds table identity (ID, page, winning methods) to
	// formats that can carry it.
	IncludeMetadata bool

	// PrettyPrint enables indented output for JSON.
	PrettyPrint bool

	// SheetPrefix names XLSX sheets: prefix plus 1-based table number.
	SheetPrefix string
}

// DefaultExportConfig returns sensible defaults for export configuration.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		Format:          ExportFormatCSV,
		Delimiter:       ',',
		IncludeMetadata: true,
		SheetPrefix:     "Table",
	}
}

// CSVExportConfig returns config for plain CSV export.
func CSVExportConfig() ExportConfig {
	return DefaultExportConfig()
}

// TSVExportConfig returns config for TSV export.
func TSVExportConfig() ExportConfig {
	config := DefaultExportConfig()
	config.Format = ExportFormatTSV
	config.Delimiter = '\t'
	return config
}

// JSONExportConfig returns config for pretty-printed JSON export.
func JSONExportConfig() ExportConfig {
	config := DefaultExportConfig()
	config.Format = ExportFormatJSON
	config.PrettyPrint = true
	return config
}

// ExportedTable is one extraction result prepared for structured export.
type ExportedTable struct {
	TableID         string     `json:"table_id,omitempty"`
	Page            int        `json:"page,omitempty"`
	StructureMethod string     `json:"structure_method,omitempty"`
	CellMethod      string     `json:"cell_method,omitempty"`
	HeaderRows      int        `json:"header_rows,omitempty"`
	Cells           [][]string `json:"cells"`
}

// Exporter writes extraction results in the configured format.
type Exporter struct {
	config ExportConfig
}

// NewExporter creates an exporter with default configuration.
func NewExporter() *Exporter {
	return &Exporter{config: DefaultExportConfig()}
}

// NewExporterWithConfig creates an exporter with custom configuration.
func NewExporterWithConfig(config ExportConfig) *Exporter {
	if config.Delimiter == 0 {
		config.Delimiter = ','
	}
	if config.SheetPrefix == "" {
		config.SheetPrefix = "Table"
	}
	return &Exporter{config: config}
}

// Export writes the results to w in the configured format.
func (e *Exporter) Export(results []*model.ExtractionResult, w io.Writer) error {
	switch e.config.Format {
	case ExportFormatCSV, ExportFormatTSV:
		return e.exportCSV(results, w)
	case ExportFormatJSON:
		return e.exportJSON(results, w)
	case ExportFormatMarkdown:
		return e.exportMarkdown(results, w)
	case ExportFormatXLSX:
		return e.exportXLSX(results, w)
	default:
		return fmt.Errorf("unsupported export format: %v", e.config.Format)
	}
}

// ExportToFile writes the results to a file.
func (e *Exporter) ExportToFile(results []*model.ExtractionResult, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	return e.Export(results, f)
}

// ExportToString renders the results as a string. Not meaningful for the
// XLSX format.
func (e *Exporter) ExportToString(results []*model.ExtractionResult) (string, error) {
	var buf bytes.Buffer
	if err := e.Export(results, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func prepareTable(result *model.ExtractionResult) ExportedTable {
	return ExportedTable{
		TableID:         result.TableID,
		Page:            result.Page,
		StructureMethod: string(result.Key.Structure),
		CellMethod:      string(result.Key.Cell),
		HeaderRows:      result.Grid.HeaderRows,
		Cells:           result.Grid.Cells,
	}
}

// exportCSV writes each table's rows in order; multiple tables are
// separated by a blank line.
func (e *Exporter) exportCSV(results []*model.ExtractionResult, w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = e.config.Delimiter

	for i, result := range results {
		if i > 0 {
			cw.Flush()
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		for _, row := range result.Grid.Cells {
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func (e *Exporter) exportJSON(results []*model.ExtractionResult, w io.Writer) error {
	tables := make([]ExportedTable, len(results))
	for i, result := range results {
		tables[i] = prepareTable(result)
		if !e.config.IncludeMetadata {
			tables[i] = ExportedTable{Cells: tables[i].Cells, HeaderRows: tables[i].HeaderRows}
		}
	}

	enc := json.NewEncoder(w)
	if e.config.PrettyPrint {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(tables)
}

// exportMarkdown renders pipe tables. The first row serves as the header
// row; embedded pipes and newlines are escaped so the table stays intact.
func (e *Exporter) exportMarkdown(results []*model.ExtractionResult, w io.Writer) error {
	var b strings.Builder
	for i, result := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		if e.config.IncludeMetadata {
			fmt.Fprintf(&b, "<!-- page %d, %s -->\n", result.Page, result.Key)
		}

		grid := result.Grid
		for r, row := range grid.Cells {
			b.WriteString("|")
			for _, cell := range row {
				b.WriteString(" ")
				b.WriteString(escapeMarkdown(cell))
				b.WriteString(" |")
			}
			b.WriteString("\n")
			if r == 0 {
				b.WriteString("|")
				b.WriteString(strings.Repeat(" --- |", grid.NCols))
				b.WriteString("\n")
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeMarkdown(cell string) string {
	cell = strings.ReplaceAll(cell, "|", `\|`)
	return strings.ReplaceAll(cell, "\n", "<br>")
}
