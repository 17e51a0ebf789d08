package wl

import "gonum.org/v1/gonum/stat"

// StitchThreshold derives the floor below which a log-DoS entry does not
// qualify for the overlap mean.
func StitchThreshold(tolerance float64) float64 {
	return tolerance * 1e-1
}

// Stitch splices a window's averaged log-DoS onto the global buffer. The
// global buffer already holds every earlier window; the incoming segment is
// shifted so its mean over the first overlap positions of the window matches
// the running global curve, and only bins past the overlap are written, so
// overlapping regions stay owned by the earlier window. Positions where
// either value is at or below minVal are excluded from the mean; if none
// qualify the scale is undefined and a StitchError is returned.
func Stitch(global, received []float64, windowID int, win Window, overlap int, minVal float64) error {
	diffs := make([]float64, 0, overlap)
	for j := 0; j < overlap; j++ {
		g, r := global[win.Lo+j], received[win.Lo+j]
		if g > minVal && r > minVal {
			diffs = append(diffs, g-r)
		}
	}
	if len(diffs) == 0 {
		return &StitchError{Window: windowID, Reason: "no qualifying overlap positions"}
	}
	scale := stat.Mean(diffs, nil)
	for j := win.Lo + overlap; j <= win.Hi; j++ {
		global[j] = received[j] + scale
	}
	return nil
}
