package wl

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// minHistogramVisits gates both the seeding reset and every refinement: no
// flatness decision fires until each window bin has collected more counts
// than this.
const minHistogramVisits = 10

// Flatness returns the ratio of the minimum to the mean of the histogram.
func Flatness(hist []float64) float64 {
	return floats.Min(hist) / stat.Mean(hist, nil)
}

// SeedHistogram handles the first-reset behavior: until every bin exceeds
// the visit floor for the first time no flatness check fires, and once it
// does the unphysical initial exploration is discarded by zeroing the
// histogram. Reports whether the walker is past its seeding reset.
func (w *Walker) SeedHistogram() bool {
	if w.firstReset {
		return true
	}
	if floats.Min(w.hist) > minHistogramVisits {
		w.ResetHistogram()
		w.firstReset = true
	}
	return w.firstReset
}

// FlatEnough evaluates the refinement criterion against the flatness
// tolerance and returns the measured flatness alongside the verdict.
func (w *Walker) FlatEnough(tolerance float64) (float64, bool) {
	flatness := Flatness(w.hist)
	return flatness, flatness > tolerance && floats.Min(w.hist) > minHistogramVisits
}

// ResetHistogram zeroes the local histogram. Refinement calls this so no
// counts carry across rounds.
func (w *Walker) ResetHistogram() {
	for i := range w.hist {
		w.hist[i] = 0
	}
}

// RebaseMode selects how entries driven negative by the rebase shift are
// folded back. The source treats them as their magnitude; zeroing is the
// alternative reading.
type RebaseMode string

const (
	RebaseAbs  RebaseMode = "abs"
	RebaseZero RebaseMode = "zero"
)

// Rebase normalizes the zero of a log-DoS estimate before averaging:
// subtract the smallest positive entry everywhere, then fold entries that
// went negative according to mode.
func Rebase(logDoS []float64, mode RebaseMode) {
	minPositive := 0.0
	found := false
	for _, v := range logDoS {
		if v > 0 && (!found || v < minPositive) {
			minPositive = v
			found = true
		}
	}
	if !found {
		return
	}
	for i, v := range logDoS {
		v -= minPositive
		if v < 0 {
			if mode == RebaseZero {
				v = 0
			} else {
				v = -v
			}
		}
		logDoS[i] = v
	}
}

// Rebase applies the configured rebase to the walker's own view.
func (w *Walker) Rebase(mode RebaseMode) {
	Rebase(w.logDoS, mode)
}
