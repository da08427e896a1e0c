// Package pageio loads table regions from the supported input sources:
// JSON layout dumps carrying pre-segmented regions with words and ruled
// strokes, and PDF files read directly for their positioned text.
package pageio
