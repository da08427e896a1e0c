// Package pipeline orchestrates table extraction end to end: activation-
// gated structure detectors fan out per axis, their hypotheses merge into
// consensus boundaries, cell extractors fill every candidate grid, a
// rank-sum scorer picks the winner, and the post-processing chain cleans
// it up.
//
// Each table advances through a one-directional stage machine (idle,
// detectors, combining, cell extraction, scoring, post-processing, done)
// with no retries. Method failures and panics are isolated: a crashing
// detector or extractor declines for that table and the run continues.
// Tables within a document run concurrently under a bounded worker pool,
// and a failing table is skipped with a diagnostic rather than aborting
// its siblings.
//
// Configuration starts from [DefaultConfig], optionally overlaid with a
// YAML file and the calibration artifact's per-method multipliers.
package pipeline
