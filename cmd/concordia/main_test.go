package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/concordia/calibrate"
)

// writeLayoutDump writes a one-region layout dump: a 2-column, 4-row word
// grid with a gutter at x=70..170.
func writeLayoutDump(t *testing.T) string {
	t.Helper()

	type box struct {
		X, Y, Width, Height float64
	}
	var words []map[string]any
	for row := 0; row < 4; row++ {
		y := 100 - float64(row)*25
		words = append(words,
			map[string]any{"text": fmt.Sprintf("L%d", row), "bbox": box{10, y, 60, 10}},
			map[string]any{"text": fmt.Sprintf("R%d", row), "bbox": box{170, y, 60, 10}},
		)
	}
	dump := map[string]any{
		"regions": []map[string]any{{
			"page":  1,
			"bbox":  box{0, 0, 300, 120},
			"words": words,
		}},
	}

	data, err := json.Marshal(dump)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := NewMain().Run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestExtractCommandCSV(t *testing.T) {
	dump := writeLayoutDump(t)

	stdout, _, err := runCLI(t, "extract", dump)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	for _, cell := range []string{"L0", "R0", "L3", "R3"} {
		if !strings.Contains(stdout, cell) {
			t.Errorf("output missing %q:\n%s", cell, stdout)
		}
	}
}

func TestExtractCommandJSONToFile(t *testing.T) {
	dump := writeLayoutDump(t)
	out := filepath.Join(t.TempDir(), "tables.json")

	_, stderr, err := runCLI(t, "extract", dump, "--format", "json", "--output", out)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if !strings.Contains(stderr, "1 table(s)") {
		t.Errorf("stderr = %q", stderr)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var tables []map[string]any
	if err := json.Unmarshal(data, &tables); err != nil {
		t.Fatalf("output not valid JSON: %v", err)
	}
	if len(tables) != 1 {
		t.Errorf("got %d tables", len(tables))
	}
}

func TestExtractCommandRejectsUnknownFormat(t *testing.T) {
	if _, _, err := runCLI(t, "extract", writeLayoutDump(t), "--format", "yaml"); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestExtractCommandXLSXRequiresOutput(t *testing.T) {
	if _, _, err := runCLI(t, "extract", writeLayoutDump(t), "--format", "xlsx"); err == nil {
		t.Error("xlsx to stdout accepted")
	}
}

func TestCalibrateCommand(t *testing.T) {
	dump := writeLayoutDump(t)
	dir := t.TempDir()

	truth := filepath.Join(dir, "truth.html")
	html := `<table>
		<tr><td>L0</td><td>R0</td></tr>
		<tr><td>L1</td><td>R1</td></tr>
		<tr><td>L2</td><td>R2</td></tr>
		<tr><td>L3</td><td>R3</td></tr>
	</table>`
	if err := os.WriteFile(truth, []byte(html), 0o644); err != nil {
		t.Fatal(err)
	}

	db := filepath.Join(dir, "obs.db")
	artifact := filepath.Join(dir, "multipliers.json")

	stdout, _, err := runCLI(t, "calibrate", dump, truth, "--db", db, "--out", artifact)
	if err != nil {
		t.Fatalf("calibrate failed: %v", err)
	}
	if !strings.Contains(stdout, "Calibrated over 1 table(s)") {
		t.Errorf("stdout = %q", stdout)
	}

	multipliers, err := calibrate.LoadArtifact(artifact)
	if err != nil {
		t.Fatalf("artifact unreadable: %v", err)
	}
	sawTop := false
	for method, m := range multipliers {
		if m < calibrate.MultiplierFloor || m > 1.0 {
			t.Errorf("%s multiplier %f out of bounds", method, m)
		}
		if m == 1.0 {
			sawTop = true
		}
	}
	if !sawTop {
		t.Errorf("no method at 1.0: %v", multipliers)
	}
}

func TestRenderCommand(t *testing.T) {
	dump := writeLayoutDump(t)
	out := filepath.Join(t.TempDir(), "overlay.png")

	stdout, _, err := runCLI(t, "render", dump, "--output", out)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(stdout, "Wrote ") {
		t.Errorf("stdout = %q", stdout)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("overlay missing: %v", err)
	}

	if _, _, err := runCLI(t, "render", dump, "--table", "5"); err == nil {
		t.Error("out-of-range region accepted")
	}
}

func TestNoCommand(t *testing.T) {
	if _, _, err := runCLI(t); err == nil {
		t.Error("missing command accepted")
	}
}

func TestHelp(t *testing.T) {
	stdout, _, err := runCLI(t, "--help")
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}
	for _, cmd := range []string{"extract", "calibrate", "render"} {
		if !strings.Contains(stdout, cmd) {
			t.Errorf("help missing %q", cmd)
		}
	}
}
