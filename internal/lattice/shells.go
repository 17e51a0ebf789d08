package lattice

import (
	"fmt"
	"math"
	"sort"
)

// shellSearchRange bounds the cell displacements scanned when grouping
// neighbors into shells. Two cells in every direction cover the shell counts
// used by the interaction models here.
const shellSearchRange = 2

// LatticeShells precomputes the neighbor lists consumed by FullEnergy,
// grouping displacements between basis atoms by squared distance. The first
// len(setup.Interactions) distance groups become the interaction shells.
func LatticeShells(setup *Setup) error {
	nb := setup.NB()
	wanted := len(setup.Interactions)

	type entry struct {
		d2 float64
		n  neighbor
	}

	perBasis := make([][]entry, nb)
	distances := make(map[float64]struct{})
	for l1 := 0; l1 < nb; l1++ {
		for di := -shellSearchRange; di <= shellSearchRange; di++ {
			for dj := -shellSearchRange; dj <= shellSearchRange; dj++ {
				for dk := -shellSearchRange; dk <= shellSearchRange; dk++ {
					for l2 := 0; l2 < nb; l2++ {
						dx := float64(di) + setup.Basis[l2][0] - setup.Basis[l1][0]
						dy := float64(dj) + setup.Basis[l2][1] - setup.Basis[l1][1]
						dz := float64(dk) + setup.Basis[l2][2] - setup.Basis[l1][2]
						d2 := dx*dx + dy*dy + dz*dz
						if d2 < 1e-12 {
							continue
						}
						d2 = roundDistance(d2)
						perBasis[l1] = append(perBasis[l1], entry{d2: d2, n: neighbor{di: di, dj: dj, dk: dk, l: l2}})
						distances[d2] = struct{}{}
					}
				}
			}
		}
	}

	sorted := make([]float64, 0, len(distances))
	for d2 := range distances {
		sorted = append(sorted, d2)
	}
	sort.Float64s(sorted)
	if len(sorted) < wanted {
		return fmt.Errorf("lattice yields %d neighbor shells, interactions require %d", len(sorted), wanted)
	}

	shellByDistance := make(map[float64]int, wanted)
	for s := 0; s < wanted; s++ {
		shellByDistance[sorted[s]] = s
	}

	setup.neighbors = make([][][]neighbor, nb)
	for l1 := 0; l1 < nb; l1++ {
		setup.neighbors[l1] = make([][]neighbor, wanted)
		for _, e := range perBasis[l1] {
			s, ok := shellByDistance[e.d2]
			if !ok {
				continue
			}
			setup.neighbors[l1][s] = append(setup.neighbors[l1][s], e.n)
		}
	}
	return nil
}

func roundDistance(d2 float64) float64 {
	return math.Round(d2*1e9) / 1e9
}
