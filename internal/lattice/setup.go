package lattice

import (
	"fmt"
	"math"
	"math/rand"
)

// Setup carries the immutable description of the lattice model: extents,
// species concentrations, basis positions and the shell-resolved pair
// interactions. It is shared read-only by all walkers.
type Setup struct {
	Nx, Ny, Nz int
	NumSpecies int

	// Concentrations holds the target fraction of each species; they must
	// sum to one.
	Concentrations []float64

	// Basis lists the fractional positions of the atoms in one cell. Its
	// length fixes the fourth configuration extent.
	Basis [][3]float64

	// Interactions[s][a][b] is the pair energy between species a and b at
	// neighbor shell s, in Rydberg.
	Interactions [][][]float64

	neighbors [][][]neighbor
}

type neighbor struct {
	di, dj, dk int
	l          int
}

func NewSetup(nx, ny, nz int, basis [][3]float64, concentrations []float64, interactions [][][]float64) (*Setup, error) {
	if nx < 1 || ny < 1 || nz < 1 {
		return nil, fmt.Errorf("lattice extents must be positive: %dx%dx%d", nx, ny, nz)
	}
	if len(basis) == 0 {
		return nil, fmt.Errorf("at least one basis atom is required")
	}
	if len(concentrations) < 2 {
		return nil, fmt.Errorf("at least two species are required")
	}
	total := 0.0
	for i, c := range concentrations {
		if c < 0 {
			return nil, fmt.Errorf("concentration %d is negative", i)
		}
		total += c
	}
	if math.Abs(total-1) > 1e-9 {
		return nil, fmt.Errorf("concentrations sum to %g, want 1", total)
	}
	if len(interactions) == 0 {
		return nil, fmt.Errorf("at least one interaction shell is required")
	}
	for s, shell := range interactions {
		if len(shell) != len(concentrations) {
			return nil, fmt.Errorf("interaction shell %d has %d rows, want %d", s, len(shell), len(concentrations))
		}
		for a, row := range shell {
			if len(row) != len(concentrations) {
				return nil, fmt.Errorf("interaction shell %d row %d has %d entries, want %d", s, a, len(row), len(concentrations))
			}
		}
	}

	setup := &Setup{
		Nx:             nx,
		Ny:             ny,
		Nz:             nz,
		NumSpecies:     len(concentrations),
		Concentrations: append([]float64(nil), concentrations...),
		Basis:          append([][3]float64(nil), basis...),
		Interactions:   interactions,
	}
	if err := LatticeShells(setup); err != nil {
		return nil, err
	}
	return setup, nil
}

// NB returns the number of basis atoms per cell.
func (s *Setup) NB() int {
	return len(s.Basis)
}

// NAtoms returns the total number of lattice positions.
func (s *Setup) NAtoms() int {
	return s.Nx * s.Ny * s.Nz * s.NB()
}

// NewConfig allocates an empty configuration with the setup extents.
func (s *Setup) NewConfig() *Config {
	return NewConfig(s.Nx, s.Ny, s.Nz, s.NB())
}

// RdmSite returns a uniformly distributed valid site index.
func (s *Setup) RdmSite(rng *rand.Rand) Site {
	return Site{
		I: rng.Intn(s.Nx),
		J: rng.Intn(s.Ny),
		K: rng.Intn(s.Nz),
		L: rng.Intn(s.NB()),
	}
}

// InitialSetup fills cfg with species honoring the target concentrations,
// then shuffles the arrangement uniformly.
func InitialSetup(setup *Setup, cfg *Config, rng *rand.Rand) {
	n := cfg.Sites()
	filled := 0
	for sp := 1; sp < setup.NumSpecies; sp++ {
		count := int(math.Round(setup.Concentrations[sp] * float64(n)))
		for i := 0; i < count && filled < n; i++ {
			cfg.Species[filled] = uint8(sp)
			filled++
		}
	}
	// Remaining positions take species 0, absorbing rounding drift.
	for ; filled < n; filled++ {
		cfg.Species[filled] = 0
	}
	rng.Shuffle(n, func(i, j int) {
		cfg.Species[i], cfg.Species[j] = cfg.Species[j], cfg.Species[i]
	})
}
