// Package export renders extraction results as CSV, TSV, JSON, Markdown
// pipe tables, or XLSX workbooks.
//
// An [Exporter] is configured once with an [ExportConfig] and then writes
// any number of result sets to an io.Writer, a file, or a string. Text
// formats separate consecutive tables with a blank line; XLSX output puts
// each table on its own worksheet.
package export
