// Package postprocess transforms the winning cell grid after selection.
//
// Processors implement the [Processor] interface and run in one fixed
// [CanonicalOrder]; several are order-dependent (caption stripping must run
// before continuation-row merging, or a merged caption pollutes the first
// data row). A configuration chooses which processors run, but never their
// order.
//
// Built-ins, in canonical order:
//
//   - caption_strip - drop leading "Table N" caption rows
//   - header_separate - identify the column-header row
//   - continuation_merge - fold wrapped rows into their logical row
//   - inline_header_lift - lift embedded section labels into their rows
//   - footnote_strip - drop trailing footnote/source rows
//   - cell_clean - Unicode normalization and whitespace cleanup
//
// Every processor is idempotent: re-applying one to its own output changes
// nothing. The property tests in this package enforce that for each
// built-in.
package postprocess
