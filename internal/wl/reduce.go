package wl

import (
	"gonum.org/v1/gonum/floats"

	"wanglandau/internal/transport"
)

// Message tags encode a (phase, window) pair so a receive can only match the
// intended phase of the intended window, keeping out-of-order arrivals
// across windows safe.
const (
	phaseGather = iota + 1
	phaseScatter
	phaseStitch
)

func messageTag(phase, window int) int {
	return phase<<16 | window
}

// ReduceWindow collapses the log-DoS views of the walkers sharing a window
// into their arithmetic mean. Non-root walkers send their view to the window
// root; the root accumulates, divides by the walker count and sends the mean
// back, so afterwards every walker in the window holds an identical view.
// The gather/scatter never crosses window boundaries.
func ReduceWindow(tr transport.Transport, windowID, windowRoot, walkers int, logDoS, scratch []float64) error {
	rank := tr.Rank()
	if rank != windowRoot {
		if err := tr.Send(logDoS, windowRoot, messageTag(phaseGather, windowID)); err != nil {
			return transportErr("gather send", err)
		}
		if err := tr.Recv(logDoS, windowRoot, messageTag(phaseScatter, windowID)); err != nil {
			return transportErr("scatter recv", err)
		}
		return nil
	}

	for peer := windowRoot + 1; peer < windowRoot+walkers; peer++ {
		if err := tr.Recv(scratch, peer, messageTag(phaseGather, windowID)); err != nil {
			return transportErr("gather recv", err)
		}
		floats.Add(logDoS, scratch)
	}
	floats.Scale(1/float64(walkers), logDoS)
	for peer := windowRoot + 1; peer < windowRoot+walkers; peer++ {
		if err := tr.Send(logDoS, peer, messageTag(phaseScatter, windowID)); err != nil {
			return transportErr("scatter send", err)
		}
	}
	return nil
}
