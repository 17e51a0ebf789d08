// Package wl implements the Wang-Landau sampling core: the energy-window
// partition, the biased sweep kernel, the histogram flatness schedule, the
// intra-window DoS reduction and the inter-window stitch that assembles a
// single global log g(E).
package wl

// Window is an inclusive range of global bin indices assigned to one group
// of walkers. Adjacent windows overlap so their DoS segments can be aligned.
type Window struct {
	Lo, Hi int
}

// Bins returns the number of bins the window spans.
func (w Window) Bins() int {
	return w.Hi - w.Lo + 1
}

// Contains reports whether the global bin index lies inside the window.
func (w Window) Contains(bin int) bool {
	return bin >= w.Lo && bin <= w.Hi
}

// WindowIndices splits the global bin range [0, bins) into numWindows
// contiguous windows with the given bin overlap. The first window starts at
// bin 0, the last ends at bins-1, and every interior window keeps at least
// one bin that no neighbor shares.
func WindowIndices(bins, numWindows, overlap int) ([]Window, error) {
	if numWindows < 1 {
		return nil, configErrorf("num_windows must be at least 1, got %d", numWindows)
	}
	if bins < numWindows {
		return nil, configErrorf("bins (%d) must be at least num_windows (%d)", bins, numWindows)
	}
	width := bins / numWindows
	if numWindows > 1 {
		if overlap < 1 {
			return nil, configErrorf("bin_overlap must be at least 1, got %d", overlap)
		}
		if overlap >= width {
			return nil, configErrorf("bin_overlap (%d) must be smaller than the window width (%d)", overlap, width)
		}
		if numWindows > 2 && width-2*overlap < 1 {
			return nil, configErrorf("bin_overlap (%d) leaves interior windows of width %d without owned bins", overlap, width)
		}
	}

	windows := make([]Window, numWindows)
	for w := 0; w < numWindows; w++ {
		lo := w*width - overlap
		if lo < 0 {
			lo = 0
		}
		hi := (w+1)*width - 1 + overlap
		if hi > bins-1 || w == numWindows-1 {
			hi = bins - 1
		}
		windows[w] = Window{Lo: lo, Hi: hi}
	}
	return windows, nil
}
