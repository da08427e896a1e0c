package calibrate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tsawler/concordia/model"
)

// Sentinel errors for artifact loading. Both are recoverable: the pipeline
// falls back to default multipliers (1.0) and logs a warning.
var (
	ErrArtifactMissing = errors.New("calibration artifact missing")
	ErrArtifactCorrupt = errors.New("calibration artifact corrupt")
)

// artifact is the persisted form: a flat method-to-multiplier map plus
// provenance metadata.
type artifact struct {
	GeneratedAt time.Time                  `json:"generated_at"`
	Tables      int                        `json:"tables,omitempty"`
	Multipliers map[model.MethodID]float64 `json:"multipliers"`
}

// LoadArtifact reads the multiplier artifact at path. On a missing or
// unreadable file it returns an empty map and an error wrapping
// ErrArtifactMissing; on malformed content, ErrArtifactCorrupt. Absent
// entries in a loaded map default to 1.0 at the point of use.
func LoadArtifact(path string) (map[model.MethodID]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return map[model.MethodID]float64{}, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil || a.Multipliers == nil {
		return map[model.MethodID]float64{}, fmt.Errorf("%w: %s", ErrArtifactCorrupt, path)
	}
	return a.Multipliers, nil
}

// SaveArtifact persists multipliers to path. The write is guarded by a
// scoped lock file and lands via an atomic rename, so a concurrent reader
// never observes a partially written artifact.
func SaveArtifact(path string, multipliers map[model.MethodID]float64, tables int) error {
	unlock, err := acquireLock(path + ".lock")
	if err != nil {
		return err
	}
	defer unlock()

	data, err := json.MarshalIndent(artifact{
		GeneratedAt: time.Now().UTC(),
		Tables:      tables,
		Multipliers: multipliers,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing artifact: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing artifact: %w", err)
	}
	return nil
}

// acquireLock takes an exclusive advisory lock by creating the lock file,
// retrying briefly if another writer holds it. Returns the release func.
func acquireLock(path string) (func(), error) {
	deadline := time.Now().Add(5 * time.Second)
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			f.Close()
			return func() { os.Remove(path) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("acquiring artifact lock: %w", err)
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("artifact lock %s held too long", path)
		}
		time.Sleep(50 * time.Millisecond)
	}
}
