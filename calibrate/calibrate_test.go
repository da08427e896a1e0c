package calibrate

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/concordia/model"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

// obsFor expands per-table accuracies into a flat observation batch.
func obsFor(t *testing.T, accuracies []map[model.MethodID]float64) []Observation {
	t.Helper()
	var batch []Observation
	for i, table := range accuracies {
		for method, acc := range table {
			batch = append(batch, Observation{
				Table:    string(rune('a' + i)),
				Method:   method,
				Accuracy: acc,
			})
		}
	}
	return batch
}

// M1 wins 8 of 10 tables, M2 wins 2, M3 none: multipliers 1.0, 0.25, and
// the 0.1 floor.
func TestMultipliersWinRates(t *testing.T) {
	var tables []map[model.MethodID]float64
	for i := 0; i < 8; i++ {
		tables = append(tables, map[model.MethodID]float64{"m1": 0.9, "m2": 0.5, "m3": 0.1})
	}
	for i := 0; i < 2; i++ {
		tables = append(tables, map[model.MethodID]float64{"m1": 0.4, "m2": 0.8, "m3": 0.1})
	}

	got := Multipliers(obsFor(t, tables), nil)

	if got["m1"] != 1.0 {
		t.Errorf("m1 = %f, want 1.0", got["m1"])
	}
	if math.Abs(got["m2"]-0.25) > 1e-9 {
		t.Errorf("m2 = %f, want 0.25", got["m2"])
	}
	if got["m3"] != MultiplierFloor {
		t.Errorf("m3 = %f, want floor %f", got["m3"], MultiplierFloor)
	}
}

// Every multiplier stays within [0.1, 1.0] and the top method is exactly
// 1.0, across a variety of batches.
func TestMultiplierBounds(t *testing.T) {
	batches := [][]map[model.MethodID]float64{
		{{"a": 0.5, "b": 0.5}},
		{{"a": 0.9}, {"b": 0.9}, {"a": 0.2, "b": 0.7}},
		{{"a": 0.1, "b": 0.2, "c": 0.3}, {"a": 0.3, "b": 0.2, "c": 0.1}},
	}

	for i, tables := range batches {
		got := Multipliers(obsFor(t, tables), nil)
		sawTop := false
		for method, m := range got {
			if m < MultiplierFloor || m > 1.0 {
				t.Errorf("batch %d: %s multiplier %f out of bounds", i, method, m)
			}
			if m == 1.0 {
				sawTop = true
			}
		}
		if !sawTop {
			t.Errorf("batch %d: no method at 1.0: %v", i, got)
		}
	}
}

func TestMultipliersEmptyBatch(t *testing.T) {
	if got := Multipliers(nil, nil); len(got) != 0 {
		t.Errorf("empty batch gave %v", got)
	}
}

func TestMultipliersTieBreaksByPriority(t *testing.T) {
	batch := obsFor(t, []map[model.MethodID]float64{{"x": 0.8, "y": 0.8}})

	got := Multipliers(batch, []model.MethodID{"y", "x"})
	if got["y"] != 1.0 {
		t.Errorf("priority tie-break: y = %f, want 1.0", got["y"])
	}
	if got["x"] != MultiplierFloor {
		t.Errorf("priority tie-break: x = %f, want floor", got["x"])
	}
}

func TestArtifactRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multipliers.json")
	want := map[model.MethodID]float64{"lattice": 1.0, "cliff": 0.4, "edges": 0.1}

	if err := SaveArtifact(path, want, 12); err != nil {
		t.Fatalf("SaveArtifact failed: %v", err)
	}

	got, err := LoadArtifact(path)
	if err != nil {
		t.Fatalf("LoadArtifact failed: %v", err)
	}
	for method, m := range want {
		if got[method] != m {
			t.Errorf("%s = %f, want %f", method, got[method], m)
		}
	}

	// The lock file must not linger after a successful save.
	if _, err := LoadArtifact(path + ".lock"); !errors.Is(err, ErrArtifactMissing) {
		t.Error("lock file left behind after save")
	}
}

func TestArtifactMissing(t *testing.T) {
	got, err := LoadArtifact(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrArtifactMissing) {
		t.Errorf("err = %v, want ErrArtifactMissing", err)
	}
	if len(got) != 0 {
		t.Errorf("missing artifact gave %v, want empty defaults", got)
	}
}

func TestArtifactCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := writeFile(path, "{not json"); err != nil {
		t.Fatal(err)
	}

	got, err := LoadArtifact(path)
	if !errors.Is(err, ErrArtifactCorrupt) {
		t.Errorf("err = %v, want ErrArtifactCorrupt", err)
	}
	if len(got) != 0 {
		t.Errorf("corrupt artifact gave %v, want empty defaults", got)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	batch := []Observation{
		{Table: "t1", Method: "lattice", Accuracy: 0.9},
		{Table: "t1", Method: "cliff", Accuracy: 0.6},
		{Table: "t2", Method: "lattice", Accuracy: 0.7},
	}
	if err := store.Record(ctx, batch); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := store.Observations(ctx)
	if err != nil {
		t.Fatalf("Observations failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d observations, want 3", len(got))
	}

	// Re-recording the same table/method upserts rather than duplicating.
	if err := store.Record(ctx, []Observation{{Table: "t1", Method: "lattice", Accuracy: 0.95}}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	got, err = store.Observations(ctx)
	if err != nil {
		t.Fatalf("Observations failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("upsert duplicated: %d observations", len(got))
	}

	n, err := store.TableCount(ctx)
	if err != nil {
		t.Fatalf("TableCount failed: %v", err)
	}
	if n != 2 {
		t.Errorf("TableCount = %d, want 2", n)
	}
}

func TestParseHTMLTables(t *testing.T) {
	doc := `<html><body>
		<p>intro</p>
		<table>
			<tr><th>Name</th><th>Value</th></tr>
			<tr><td>alpha</td><td><b>1.5</b></td></tr>
		</table>
		<table><tr><td>solo</td></tr></table>
	</body></html>`

	truths, err := ParseHTMLTables(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseHTMLTables failed: %v", err)
	}
	if len(truths) != 2 {
		t.Fatalf("got %d tables, want 2", len(truths))
	}

	want := [][]string{{"Name", "Value"}, {"alpha", "1.5"}}
	if len(truths[0].Cells) != 2 {
		t.Fatalf("first table rows = %d, want 2", len(truths[0].Cells))
	}
	for r, row := range want {
		for c, cell := range row {
			if truths[0].Cells[r][c] != cell {
				t.Errorf("cell (%d,%d) = %q, want %q", r, c, truths[0].Cells[r][c], cell)
			}
		}
	}
	if truths[1].Cells[0][0] != "solo" {
		t.Errorf("second table = %v", truths[1].Cells)
	}
}

func TestFingerprintStability(t *testing.T) {
	bbox := model.NewBBox(10, 20, 300, 100)
	cells := [][]string{{"a", "b"}, {"c", "d"}}

	f1 := Fingerprint(3, bbox, cells)
	f2 := Fingerprint(3, bbox, cells)
	if f1 != f2 {
		t.Error("fingerprint not stable for identical input")
	}

	if f1 == Fingerprint(4, bbox, cells) {
		t.Error("page change did not alter fingerprint")
	}
	if f1 == Fingerprint(3, bbox, [][]string{{"a", "b"}, {"c", "x"}}) {
		t.Error("cell change did not alter fingerprint")
	}
	// Cell boundaries matter: ["ab",""] must differ from ["a","b"].
	if Fingerprint(3, bbox, [][]string{{"ab", ""}}) == Fingerprint(3, bbox, [][]string{{"a", "b"}}) {
		t.Error("cell boundary shift did not alter fingerprint")
	}
}
