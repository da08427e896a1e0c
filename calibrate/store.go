package calibrate

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/tsawler/concordia/model"
)

// schema for the observation history. Accumulates across calibration runs;
// one row per (table fingerprint, method), newest accuracy wins.
const schema = `
CREATE TABLE IF NOT EXISTS observations (
	table_fp   TEXT NOT NULL,
	method     TEXT NOT NULL,
	accuracy   REAL NOT NULL,
	created_at INTEGER NOT NULL DEFAULT (unixepoch()),
	PRIMARY KEY (table_fp, method)
);
CREATE INDEX IF NOT EXISTS idx_observations_method ON observations(method);
`

// Store persists calibration observations in a SQLite database so batches
// accumulate across runs.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if necessary) the observation store at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening calibration store: %w", err)
	}

	// Single writer; WAL lets the pipeline read history mid-batch.
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configuring calibration store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing calibration store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record upserts a batch of observations.
func (s *Store) Record(ctx context.Context, batch []Observation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("recording observations: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO observations (table_fp, method, accuracy)
		VALUES (?, ?, ?)
		ON CONFLICT (table_fp, method) DO UPDATE SET
			accuracy = excluded.accuracy,
			created_at = unixepoch()`)
	if err != nil {
		return fmt.Errorf("recording observations: %w", err)
	}
	defer stmt.Close()

	for _, obs := range batch {
		if _, err := stmt.ExecContext(ctx, obs.Table, string(obs.Method), obs.Accuracy); err != nil {
			return fmt.Errorf("recording observation for %s/%s: %w", obs.Table, obs.Method, err)
		}
	}
	return tx.Commit()
}

// Observations returns the full accumulated history, ordered by table then
// method for deterministic aggregation.
func (s *Store) Observations(ctx context.Context) ([]Observation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT table_fp, method, accuracy FROM observations ORDER BY table_fp, method`)
	if err != nil {
		return nil, fmt.Errorf("reading observations: %w", err)
	}
	defer rows.Close()

	var batch []Observation
	for rows.Next() {
		var obs Observation
		var method string
		if err := rows.Scan(&obs.Table, &method, &obs.Accuracy); err != nil {
			return nil, fmt.Errorf("scanning observation: %w", err)
		}
		obs.Method = model.MethodID(method)
		batch = append(batch, obs)
	}
	return batch, rows.Err()
}

// TableCount returns the number of distinct tables in the history.
func (s *Store) TableCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT table_fp) FROM observations`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting tables: %w", err)
	}
	return n, nil
}
