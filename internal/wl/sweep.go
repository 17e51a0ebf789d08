package wl

import "math"

// Sweep executes trials biased species-exchange attempts. Acceptance is
// weighted by the inverse of the current DoS estimate; moves that would
// leave the window are undone and the trial leaves no trace, while in-window
// rejections are booked at the walker's current bin so the accounted random
// walk never exits the window. Returns the number of accepted moves.
func (w *Walker) Sweep(trials int) int {
	accepted := 0
	for t := 0; t < trials; t++ {
		if w.sys.Propose(w.rng) {
			// Exchanging identical species leaves the energy unchanged;
			// the trial counts as a rejection at the current bin.
			w.record(w.ibin)
			continue
		}

		next := w.sys.Energy()
		jbin := BinIndex(next, w.edges, w.bins)
		if !w.win.Contains(jbin) {
			w.sys.Revert()
			continue
		}

		if w.acceptMove(jbin) {
			w.energy = next
			w.ibin = jbin
			accepted++
		} else {
			w.sys.Revert()
		}
		w.record(w.ibin)
	}
	w.accepted += int64(accepted)
	return accepted
}

// acceptMove applies the Wang-Landau criterion
// min(1, exp(logDoS[ibin] - logDoS[jbin])).
func (w *Walker) acceptMove(jbin int) bool {
	diff := w.logDoS[w.ibin] - w.logDoS[jbin]
	if diff >= 0 {
		return true
	}
	return w.rng.Float64() < math.Exp(diff)
}
