package wl

import "math"

// BinEdges builds bins+1 evenly spaced edges spanning [minE, maxE].
func BinEdges(bins int, minE, maxE float64) []float64 {
	edges := make([]float64, bins+1)
	step := (maxE - minE) / float64(bins)
	for i := range edges {
		edges[i] = minE + float64(i)*step
	}
	edges[bins] = maxE
	return edges
}

// BinIndex maps energy e onto the 0-based bin index for edges spanning bins
// bins. Out-of-range energies map outside [0, bins); callers treat those as
// rejections.
func BinIndex(e float64, edges []float64, bins int) int {
	span := edges[bins] - edges[0]
	return int(math.Floor((e - edges[0]) / span * float64(bins)))
}
