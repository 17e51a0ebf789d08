package wl

import "math/rand"

// Walker is one independent worker sampling a single energy window. It owns
// its configuration (through sys), its local visit histogram and its running
// log-DoS estimate; nothing here is shared with other walkers.
type Walker struct {
	win   Window
	sys   System
	rng   *rand.Rand
	edges []float64
	bins  int

	f      float64
	logDoS []float64
	hist   []float64

	energy     float64
	ibin       int
	firstReset bool
	accepted   int64
}

// NewWalker allocates a walker positioned at energy, which must already lie
// inside the window's energy range (burn-in establishes this).
func NewWalker(sys System, rng *rand.Rand, edges []float64, bins int, win Window, f0, energy float64) *Walker {
	return &Walker{
		win:    win,
		sys:    sys,
		rng:    rng,
		edges:  edges,
		bins:   bins,
		f:      f0,
		logDoS: make([]float64, bins),
		hist:   make([]float64, win.Bins()),
		energy: energy,
		ibin:   BinIndex(energy, edges, bins),
	}
}

func (w *Walker) F() float64 {
	return w.f
}

// HalveF applies one refinement step to the modification factor.
func (w *Walker) HalveF() {
	w.f /= 2
}

func (w *Walker) Window() Window {
	return w.win
}

// LogDoS exposes the walker's log-DoS view. Only entries inside the window
// are updated by the walker's own sweeps.
func (w *Walker) LogDoS() []float64 {
	return w.logDoS
}

// Histogram exposes the local visit histogram, indexed from the window's
// first bin.
func (w *Walker) Histogram() []float64 {
	return w.hist
}

func (w *Walker) Energy() float64 {
	return w.energy
}

// Accepted returns the total number of accepted trials, a diagnostic only.
func (w *Walker) Accepted() int64 {
	return w.accepted
}

// record books one in-window trial outcome at global bin: one histogram
// count and one f increment to the DoS estimate.
func (w *Walker) record(bin int) {
	w.hist[bin-w.win.Lo]++
	w.logDoS[bin] += w.f
}
