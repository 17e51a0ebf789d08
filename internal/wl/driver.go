package wl

import (
	"context"
	"math/rand"
	"time"

	"wanglandau/internal/transport"
)

// Params fixes one run of the sampler. Energies are in the evaluator's
// units; the caller converts from user-facing units beforehand.
type Params struct {
	Bins       int
	NumWindows int
	BinOverlap int
	MCSweeps   int
	NAtoms     int
	F0         float64
	Tolerance  float64
	Flatness   float64
	Rebase     RebaseMode
	EnergyMin  float64
	EnergyMax  float64
}

// Validate rejects configurations before any sampling starts.
func (p Params) Validate(numProc int) error {
	if p.NumWindows < 1 {
		return configErrorf("num_windows must be at least 1, got %d", p.NumWindows)
	}
	if numProc%p.NumWindows != 0 {
		return configErrorf("num_proc (%d) is not divisible by num_windows (%d)", numProc, p.NumWindows)
	}
	if _, err := WindowIndices(p.Bins, p.NumWindows, p.BinOverlap); err != nil {
		return err
	}
	if p.MCSweeps < 1 {
		return configErrorf("mc_sweeps must be at least 1, got %d", p.MCSweeps)
	}
	if p.NAtoms < 1 {
		return configErrorf("walker has no atoms")
	}
	if p.F0 <= 0 {
		return configErrorf("wl_f must be positive, got %g", p.F0)
	}
	if p.Tolerance <= 0 {
		return configErrorf("tolerance must be positive, got %g", p.Tolerance)
	}
	if p.Flatness <= 0 || p.Flatness >= 1 {
		return configErrorf("flatness must lie in (0,1), got %g", p.Flatness)
	}
	if p.EnergyMax <= p.EnergyMin {
		return configErrorf("energy_max (%g) must exceed energy_min (%g)", p.EnergyMax, p.EnergyMin)
	}
	switch p.Rebase {
	case "", RebaseAbs, RebaseZero:
	default:
		return configErrorf("unknown rebase mode %q", p.Rebase)
	}
	return nil
}

func (p Params) rebaseMode() RebaseMode {
	if p.Rebase == "" {
		return RebaseAbs
	}
	return p.Rebase
}

// RefinementEvent is delivered to the root observer after each stitch.
type RefinementEvent struct {
	Refinement      int
	F               float64 // value after the halving of this refinement
	Flatness        float64 // root walker's flatness at the trigger
	MinRoundSeconds float64
	MaxRoundSeconds float64
	Accepted        int64 // accepted trials across all walkers so far
	Edges           []float64
	Global          []float64 // stitched global log-DoS
	Histogram       []float64 // root walker's histogram, padded to the bin range
}

// Observer receives root-side refinement events. The public Run facade wires
// it to the array writer and the progress reporter, and collects the
// diagnostics it saves to the run store once the run ends.
type Observer interface {
	OnRefinement(ev RefinementEvent) error
}

// WalkerResult summarizes one walker's run.
type WalkerResult struct {
	Rank        int
	WindowID    int
	Refinements int
	FinalF      float64
	Accepted    int64
	Energy      float64
}

// RunWalker executes the per-walker state machine on one transport rank:
// burn into the window, then sweep until the histogram is flat, refine
// collectively, and repeat until f falls to the tolerance. Every rank runs
// the same program; obs fires on the root only.
func RunWalker(ctx context.Context, tr transport.Transport, p Params, sys System, rng *rand.Rand, obs Observer) (WalkerResult, error) {
	size, rank := tr.Size(), tr.Rank()
	if err := p.Validate(size); err != nil {
		return WalkerResult{Rank: rank}, err
	}
	windows, err := WindowIndices(p.Bins, p.NumWindows, p.BinOverlap)
	if err != nil {
		return WalkerResult{Rank: rank}, err
	}

	walkersPerWindow := size / p.NumWindows
	windowID := rank / walkersPerWindow
	windowRoot := windowID * walkersPerWindow
	win := windows[windowID]
	edges := BinEdges(p.Bins, p.EnergyMin, p.EnergyMax)

	energy := BurnIn(sys, rng, edges[win.Lo], edges[win.Hi+1])
	if err := tr.Barrier(); err != nil {
		return WalkerResult{Rank: rank, WindowID: windowID}, transportErr("burn-in barrier", err)
	}

	w := NewWalker(sys, rng, edges, p.Bins, win, p.F0, energy)
	scratch := make([]float64, p.Bins)
	var global []float64
	if rank == 0 {
		global = make([]float64, p.Bins)
	}

	result := func() WalkerResult {
		return WalkerResult{
			Rank:        rank,
			WindowID:    windowID,
			Refinements: 0,
			FinalF:      w.F(),
			Accepted:    w.Accepted(),
			Energy:      w.Energy(),
		}
	}

	trials := p.MCSweeps * p.NAtoms
	refinements := 0
	roundStart := time.Now()
	for {
		if err := ctx.Err(); err != nil {
			return result(), err
		}
		w.Sweep(trials)
		if !w.SeedHistogram() {
			continue
		}
		flatness, flat := w.FlatEnough(p.Flatness)
		if !flat {
			continue
		}

		elapsed := time.Since(roundStart).Seconds()
		minSeconds, err := tr.Reduce(elapsed, transport.Min, 0)
		if err != nil {
			return result(), transportErr("wall time reduce", err)
		}
		maxSeconds, err := tr.Reduce(elapsed, transport.Max, 0)
		if err != nil {
			return result(), transportErr("wall time reduce", err)
		}
		acceptedTotal, err := tr.Reduce(float64(w.Accepted()), transport.Sum, 0)
		if err != nil {
			return result(), transportErr("accepted reduce", err)
		}

		w.Rebase(p.rebaseMode())
		if err := ReduceWindow(tr, windowID, windowRoot, walkersPerWindow, w.LogDoS(), scratch); err != nil {
			return result(), err
		}
		if rank == windowRoot && windowID > 0 {
			if err := tr.Send(w.LogDoS(), 0, messageTag(phaseStitch, windowID)); err != nil {
				return result(), transportErr("stitch send", err)
			}
		}

		var histSnapshot []float64
		if rank == 0 {
			histSnapshot = paddedHistogram(w, p.Bins)
		}
		w.ResetHistogram()
		w.HalveF()
		refinements++

		if rank == 0 {
			copy(global[win.Lo:win.Hi+1], w.LogDoS()[win.Lo:win.Hi+1])
			for peer := 1; peer < p.NumWindows; peer++ {
				if err := tr.Recv(scratch, peer*walkersPerWindow, messageTag(phaseStitch, peer)); err != nil {
					return result(), transportErr("stitch recv", err)
				}
				if err := Stitch(global, scratch, peer, windows[peer], p.BinOverlap, StitchThreshold(p.Tolerance)); err != nil {
					return result(), err
				}
			}
			if obs != nil {
				ev := RefinementEvent{
					Refinement:      refinements,
					F:               w.F(),
					Flatness:        flatness,
					MinRoundSeconds: minSeconds,
					MaxRoundSeconds: maxSeconds,
					Accepted:        int64(acceptedTotal),
					Edges:           edges,
					Global:          append([]float64(nil), global...),
					Histogram:       histSnapshot,
				}
				if err := obs.OnRefinement(ev); err != nil {
					return result(), err
				}
			}
		}

		roundStart = time.Now()
		if w.F() <= p.Tolerance {
			break
		}
	}

	final := result()
	final.Refinements = refinements
	return final, nil
}

// paddedHistogram places the walker's window-local histogram into a
// bins-length buffer for the diagnostic snapshot.
func paddedHistogram(w *Walker, bins int) []float64 {
	padded := make([]float64, bins)
	copy(padded[w.win.Lo:], w.hist)
	return padded
}
