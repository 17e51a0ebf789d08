// Package wanglandau is the public entry point for running the parallel
// Wang-Landau sampler: build a RunRequest, call Run, and receive the
// stitched global log g(E) plus per-refinement diagnostics.
package wanglandau

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"wanglandau/internal/lattice"
	"wanglandau/internal/model"
	"wanglandau/internal/output"
	"wanglandau/internal/report"
	"wanglandau/internal/storage"
	"wanglandau/internal/transport"
	"wanglandau/internal/wl"
)

// Energies arrive in meV/atom and are converted to total Rydberg to match
// the lattice evaluator; rydbergEV is one Rydberg in eV, boltzmannRy is k_B
// in Ry/K.
const (
	rydbergEV   = 13.605693122994
	boltzmannRy = 6.33362e-6
)

// LatticeSpec describes the alloy model a run samples.
type LatticeSpec struct {
	Nx             int           `json:"nx" yaml:"nx"`
	Ny             int           `json:"ny" yaml:"ny"`
	Nz             int           `json:"nz" yaml:"nz"`
	Basis          [][3]float64  `json:"basis" yaml:"basis"`
	Concentrations []float64     `json:"concentrations" yaml:"concentrations"`
	Interactions   [][][]float64 `json:"interactions" yaml:"interactions"`
}

// DefaultLattice returns a B2-ordered two-species model on a 4x4x4 cell
// grid with nearest- and next-nearest-neighbor interactions.
func DefaultLattice() LatticeSpec {
	return LatticeSpec{
		Nx:             4,
		Ny:             4,
		Nz:             4,
		Basis:          [][3]float64{{0, 0, 0}, {0.5, 0.5, 0.5}},
		Concentrations: []float64{0.5, 0.5},
		Interactions: [][][]float64{
			{{0, -1e-3}, {-1e-3, 0}},
			{{0, 5e-4}, {5e-4, 0}},
		},
	}
}

// RunRequest fixes one sampling run.
type RunRequest struct {
	RunID      string      `json:"run_id" yaml:"run_id"`
	Bins       int         `json:"bins" yaml:"bins"`
	EnergyMin  float64     `json:"energy_min" yaml:"energy_min"` // meV/atom
	EnergyMax  float64     `json:"energy_max" yaml:"energy_max"` // meV/atom
	NumWindows int         `json:"num_windows" yaml:"num_windows"`
	BinOverlap int         `json:"bin_overlap" yaml:"bin_overlap"`
	MCSweeps   int         `json:"mc_sweeps" yaml:"mc_sweeps"`
	WLF        float64     `json:"wl_f" yaml:"wl_f"`
	Tolerance  float64     `json:"tolerance" yaml:"tolerance"`
	Flatness   float64     `json:"flatness" yaml:"flatness"`
	T          float64     `json:"T" yaml:"T"`
	Rebase     string      `json:"rebase" yaml:"rebase"`
	NumProc    int         `json:"num_proc" yaml:"num_proc"`
	Seed       int64       `json:"seed" yaml:"seed"`
	OutputDir  string      `json:"output_dir" yaml:"output_dir"`
	Lattice    LatticeSpec `json:"lattice" yaml:"lattice"`
}

func (r *RunRequest) applyDefaults() {
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
	if r.NumProc == 0 {
		r.NumProc = 1
	}
	if r.NumWindows == 0 {
		r.NumWindows = 1
	}
	if r.BinOverlap == 0 {
		r.BinOverlap = 1
	}
	if r.MCSweeps == 0 {
		r.MCSweeps = 5
	}
	if r.WLF == 0 {
		r.WLF = 1.0
	}
	if r.Lattice.Nx == 0 && r.Lattice.Ny == 0 && r.Lattice.Nz == 0 {
		r.Lattice = DefaultLattice()
	}
}

// RunResult carries the stitched DoS and the run's diagnostics.
type RunResult struct {
	RunID       string
	Refinements int
	FinalF      float64
	Beta        float64
	Edges       []float64
	LogDoS      []float64
	Diagnostics []model.RefinementDiagnostics
	WallSeconds float64
}

// RunOptions wires optional collaborators into a run. Nil fields are simply
// skipped.
type RunOptions struct {
	Store    storage.Store
	Writer   output.Writer
	Reporter *report.Reporter
}

// rootObserver fans each refinement event out to the writer, the reporter
// and the diagnostics log.
type rootObserver struct {
	writer   output.Writer
	reporter *report.Reporter

	mu          sync.Mutex
	diagnostics []model.RefinementDiagnostics
	lastEdges   []float64
	lastGlobal  []float64
}

func (o *rootObserver) OnRefinement(ev wl.RefinementEvent) error {
	o.mu.Lock()
	o.diagnostics = append(o.diagnostics, model.RefinementDiagnostics{
		Refinement:      ev.Refinement,
		F:               ev.F,
		Flatness:        ev.Flatness,
		MinRoundSeconds: ev.MinRoundSeconds,
		MaxRoundSeconds: ev.MaxRoundSeconds,
		AcceptedTrials:  ev.Accepted,
	})
	o.lastEdges = append([]float64(nil), ev.Edges...)
	o.lastGlobal = ev.Global
	o.mu.Unlock()

	if o.writer != nil {
		if err := o.writer.Write1D(output.DoSBinsFile, ev.Edges); err != nil {
			return err
		}
		if err := o.writer.Write1D(output.DoSFile, ev.Global); err != nil {
			return err
		}
		if err := o.writer.Write1D(output.HistFile, ev.Histogram); err != nil {
			return err
		}
	}
	if o.reporter != nil {
		o.reporter.Refinement(ev.Refinement, ev.F, ev.Flatness, ev.MinRoundSeconds, ev.MaxRoundSeconds, ev.Accepted)
	}
	return nil
}

// Run executes a full sampling run with NumProc in-process walkers and
// returns the stitched global log-DoS. Configuration problems surface as
// *wl.ConfigError before any sampling starts.
func Run(ctx context.Context, req RunRequest, opts RunOptions) (RunResult, error) {
	req.applyDefaults()
	started := time.Now()

	setup, err := lattice.NewSetup(req.Lattice.Nx, req.Lattice.Ny, req.Lattice.Nz,
		req.Lattice.Basis, req.Lattice.Concentrations, req.Lattice.Interactions)
	if err != nil {
		return RunResult{}, fmt.Errorf("lattice setup: %w", err)
	}
	nAtoms := setup.NAtoms()

	// meV/atom -> total Rydberg.
	scale := float64(nAtoms) / (rydbergEV * 1000)
	params := wl.Params{
		Bins:       req.Bins,
		NumWindows: req.NumWindows,
		BinOverlap: req.BinOverlap,
		MCSweeps:   req.MCSweeps,
		NAtoms:     nAtoms,
		F0:         req.WLF,
		Tolerance:  req.Tolerance,
		Flatness:   req.Flatness,
		Rebase:     wl.RebaseMode(req.Rebase),
		EnergyMin:  req.EnergyMin * scale,
		EnergyMax:  req.EnergyMax * scale,
	}
	if err := params.Validate(req.NumProc); err != nil {
		return RunResult{}, err
	}

	group, err := transport.NewLocalGroup(req.NumProc)
	if err != nil {
		return RunResult{}, err
	}
	obs := &rootObserver{writer: opts.Writer, reporter: opts.Reporter}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]wl.WalkerResult, req.NumProc)
	errs := make([]error, req.NumProc)
	var wg sync.WaitGroup
	for rank := 0; rank < req.NumProc; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(req.Seed + int64(rank)))
			cfg := setup.NewConfig()
			lattice.InitialSetup(setup, cfg, rng)
			sys := lattice.NewSystem(setup, cfg)

			var rankObs wl.Observer
			if rank == 0 {
				rankObs = obs
			}
			results[rank], errs[rank] = wl.RunWalker(ctx, group[rank], params, sys, rng, rankObs)
			if errs[rank] != nil {
				// Wake peers blocked on this walker's sends.
				cancel()
				group[rank].Abort()
			}
		}(rank)
	}
	wg.Wait()

	if opts.Reporter != nil {
		opts.Reporter.Done()
	}
	for _, err := range errs {
		if err != nil {
			return RunResult{}, err
		}
	}

	root := results[0]
	result := RunResult{
		RunID:       req.RunID,
		Refinements: root.Refinements,
		FinalF:      root.FinalF,
		Edges:       obs.lastEdges,
		LogDoS:      obs.lastGlobal,
		Diagnostics: obs.diagnostics,
		WallSeconds: time.Since(started).Seconds(),
	}
	if req.T != 0 {
		result.Beta = 1 / (boltzmannRy * req.T)
	}

	if opts.Store != nil {
		if err := persistRun(ctx, opts.Store, req, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func persistRun(ctx context.Context, store storage.Store, req RunRequest, result RunResult) error {
	versioned := model.VersionedRecord{
		SchemaVersion: storage.CurrentSchemaVersion,
		CodecVersion:  storage.CurrentCodecVersion,
	}
	summary := model.RunSummary{
		VersionedRecord:  versioned,
		ID:               result.RunID,
		Bins:             req.Bins,
		NumWindows:       req.NumWindows,
		BinOverlap:       req.BinOverlap,
		WalkersPerWindow: req.NumProc / req.NumWindows,
		NumProc:          req.NumProc,
		MCSweeps:         req.MCSweeps,
		InitialF:         req.WLF,
		FinalF:           result.FinalF,
		Tolerance:        req.Tolerance,
		Flatness:         req.Flatness,
		Seed:             req.Seed,
		Refinements:      result.Refinements,
		WallSeconds:      result.WallSeconds,
	}
	if err := store.SaveRunSummary(ctx, summary); err != nil {
		return fmt.Errorf("save run summary: %w", err)
	}
	if err := store.SaveRefinements(ctx, result.RunID, result.Diagnostics); err != nil {
		return fmt.Errorf("save refinements: %w", err)
	}
	snapshot := model.DoSSnapshot{
		VersionedRecord: versioned,
		RunID:           result.RunID,
		Edges:           result.Edges,
		LogDoS:          result.LogDoS,
	}
	if err := store.SaveDoS(ctx, snapshot); err != nil {
		return fmt.Errorf("save dos: %w", err)
	}
	return nil
}
