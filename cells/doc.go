// Package cells provides cell extraction methods: pluggable algorithms that
// fill a consensus boundary grid with text from page words.
//
// Extractors implement the [Extractor] interface and register themselves by
// method ID. The grid an extractor produces always has boundary count + 1
// cells per axis, and every word in the region is either assigned to exactly
// one cell or counted in the build [Report] - never silently dropped.
//
// Reference methods:
//
//   - [NearestExtractor] ("nearest") - centre-point cell assignment, words
//     joined with spaces in reading order
//   - [FlowExtractor] ("flow") - centre-point assignment with per-cell text
//     line reconstruction, lines joined with newlines
//   - [OCRExtractor] ("ocr") - Tesseract re-reading of rasterised cell
//     crops; requires the "ocr" build tag, otherwise a stub that declines
//
// Several methods run against the same consensus boundaries to hedge
// against text-layer idiosyncrasies; rank-sum scoring picks the winner.
package cells
