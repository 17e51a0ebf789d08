package wanglandau

import (
	"context"
	"errors"
	"testing"
	"time"

	"wanglandau/internal/output"
	"wanglandau/internal/storage"
	"wanglandau/internal/wl"
)

// endToEndRequest keeps the run small: one walker, one window, four broad
// bins centered on the energies a random half-half configuration reaches.
func endToEndRequest() RunRequest {
	return RunRequest{
		RunID:      "run-e2e",
		Bins:       4,
		EnergyMin:  -24,
		EnergyMax:  -10,
		NumWindows: 1,
		BinOverlap: 1,
		MCSweeps:   5,
		WLF:        1.0,
		Tolerance:  0.5,
		Flatness:   0.5,
		T:          300,
		NumProc:    1,
		Seed:       7,
	}
}

func runWithWatchdog(t *testing.T, req RunRequest, opts RunOptions) RunResult {
	t.Helper()
	type outcome struct {
		result RunResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := Run(context.Background(), req, opts)
		done <- outcome{result: result, err: err}
	}()
	select {
	case out := <-done:
		if out.err != nil {
			t.Fatalf("run: %v", out.err)
		}
		return out.result
	case <-time.After(3 * time.Minute):
		t.Fatal("run did not finish")
		return RunResult{}
	}
}

func TestRunSingleWindowEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("sampling run")
	}

	store := storage.NewMemoryStore()
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init store: %v", err)
	}
	writer := output.NewMemWriter()

	result := runWithWatchdog(t, endToEndRequest(), RunOptions{Store: store, Writer: writer})

	// wl_f = 1.0 halves to the 0.5 tolerance in a single refinement.
	if result.Refinements != 1 {
		t.Fatalf("refinements: got %d, want 1", result.Refinements)
	}
	if result.FinalF != 0.5 {
		t.Fatalf("final f: got %v, want 0.5", result.FinalF)
	}
	if len(result.Edges) != 5 || len(result.LogDoS) != 4 {
		t.Fatalf("array lengths: edges=%d dos=%d", len(result.Edges), len(result.LogDoS))
	}
	if result.Beta <= 0 {
		t.Fatalf("beta: got %v", result.Beta)
	}

	for _, name := range []string{output.DoSBinsFile, output.DoSFile, output.HistFile} {
		if _, ok := writer.File(name); !ok {
			t.Fatalf("missing output file %s", name)
		}
	}
	edges, _ := writer.File(output.DoSBinsFile)
	if len(edges) != 5 {
		t.Fatalf("edges file length: %d", len(edges))
	}
	dos, _ := writer.File(output.DoSFile)
	if len(dos) != 4 {
		t.Fatalf("dos file length: %d", len(dos))
	}

	summary, ok, err := store.GetRunSummary(context.Background(), "run-e2e")
	if err != nil || !ok {
		t.Fatalf("stored summary: ok=%v err=%v", ok, err)
	}
	if summary.Refinements != 1 || summary.NumProc != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	snapshot, ok, err := store.GetDoS(context.Background(), "run-e2e")
	if err != nil || !ok {
		t.Fatalf("stored dos: ok=%v err=%v", ok, err)
	}
	if len(snapshot.LogDoS) != 4 {
		t.Fatalf("stored dos length: %d", len(snapshot.LogDoS))
	}
	diagnostics, ok, err := store.GetRefinements(context.Background(), "run-e2e")
	if err != nil || !ok || len(diagnostics) != 1 {
		t.Fatalf("stored refinements: ok=%v err=%v n=%d", ok, err, len(diagnostics))
	}
}

func TestRunIsDeterministicForSeed(t *testing.T) {
	if testing.Short() {
		t.Skip("sampling run")
	}

	first := runWithWatchdog(t, endToEndRequest(), RunOptions{})
	second := runWithWatchdog(t, endToEndRequest(), RunOptions{})
	if len(first.LogDoS) != len(second.LogDoS) {
		t.Fatalf("length mismatch: %d vs %d", len(first.LogDoS), len(second.LogDoS))
	}
	for bin := range first.LogDoS {
		if first.LogDoS[bin] != second.LogDoS[bin] {
			t.Fatalf("bin %d differs between identically seeded runs: %v vs %v",
				bin, first.LogDoS[bin], second.LogDoS[bin])
		}
	}
}

func TestRunConfigError(t *testing.T) {
	req := endToEndRequest()
	req.NumProc = 7
	req.NumWindows = 3

	_, err := Run(context.Background(), req, RunOptions{})
	var cfgErr *wl.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestRunLatticeError(t *testing.T) {
	req := endToEndRequest()
	req.Lattice = LatticeSpec{
		Nx:             2,
		Ny:             2,
		Nz:             2,
		Basis:          [][3]float64{{0, 0, 0}},
		Concentrations: []float64{0.6, 0.6},
		Interactions:   [][][]float64{{{0, 0}, {0, 0}}},
	}
	if _, err := Run(context.Background(), req, RunOptions{}); err == nil {
		t.Fatal("expected lattice setup error")
	}
}

func TestApplyDefaults(t *testing.T) {
	var req RunRequest
	req.applyDefaults()

	if req.RunID == "" {
		t.Fatal("run id not minted")
	}
	if req.NumProc != 1 || req.NumWindows != 1 || req.BinOverlap != 1 {
		t.Fatalf("worker defaults: %+v", req)
	}
	if req.WLF != 1.0 || req.MCSweeps != 5 {
		t.Fatalf("sampling defaults: %+v", req)
	}
	if req.Lattice.Nx == 0 || len(req.Lattice.Basis) == 0 {
		t.Fatalf("lattice default missing: %+v", req.Lattice)
	}

	// Explicit values survive.
	req2 := RunRequest{RunID: "fixed", NumProc: 4, NumWindows: 2, WLF: 2}
	req2.applyDefaults()
	if req2.RunID != "fixed" || req2.NumProc != 4 || req2.NumWindows != 2 || req2.WLF != 2 {
		t.Fatalf("explicit values overwritten: %+v", req2)
	}
}
