// Package render draws diagnostic overlays: a table region's words and
// ruled strokes with the accepted consensus boundaries on top, for visual
// inspection of detector and combination behaviour.
package render
