// Package calibrate implements the offline calibration loop: it turns
// historical ground-truth performance into the per-method trust multipliers
// the combination engine applies on future runs.
//
// The loop consumes [Observation] records (table fingerprint, structure
// method, ground-truth cell accuracy), credits each table's most accurate
// method with a win, and maps win rates to multipliers: the best method
// gets 1.0, the rest their win rate relative to the best, floored at
// [MultiplierFloor] so no method is ever silenced entirely.
//
// Observations accumulate in a SQLite [Store] across runs. The resulting
// multipliers persist as a JSON artifact written under a scoped lock with
// an atomic replace; the pipeline loads it at start-up and falls back to
// defaults when it is missing or corrupt. Ground truths load from HTML
// table files or XLSX worksheets.
package calibrate
