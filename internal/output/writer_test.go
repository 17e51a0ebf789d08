package output

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestDirWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := NewDirWriter(filepath.Join(dir, "run"))
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	values := []float64{1.5, -2.25, 0, 3e-7}
	if err := w.Write1D(DoSFile, values); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "run", DoSFile))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != len(values) {
		t.Fatalf("got %d lines, want %d", len(lines), len(values))
	}
	for i, line := range lines {
		parsed, err := strconv.ParseFloat(line, 64)
		if err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if parsed != values[i] {
			t.Fatalf("line %d: got %v, want %v", i, parsed, values[i])
		}
	}
}

func TestDirWriterOverwrites(t *testing.T) {
	w, err := NewDirWriter(t.TempDir())
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	if err := w.Write1D(HistFile, []float64{1, 2, 3}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := w.Write1D(HistFile, []float64{9}); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(w.Dir, HistFile))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines after overwrite, want 1", len(lines))
	}
}

func TestMemWriterIsolation(t *testing.T) {
	w := NewMemWriter()
	values := []float64{1, 2}
	if err := w.Write1D(DoSBinsFile, values); err != nil {
		t.Fatalf("write: %v", err)
	}
	values[0] = 99

	stored, ok := w.File(DoSBinsFile)
	if !ok {
		t.Fatal("file missing")
	}
	if stored[0] != 1 {
		t.Fatalf("writer aliased caller slice: %v", stored)
	}
	if _, ok := w.File("absent"); ok {
		t.Fatal("unexpected file")
	}
}
