package lattice

import "math/rand"

// System binds a setup and a walker-private configuration into the proposal
// interface consumed by the sampling kernel: propose a species exchange,
// evaluate the total energy, revert on rejection.
type System struct {
	setup *Setup
	cfg   *Config

	lastA, lastB Site
	proposed     bool
}

func NewSystem(setup *Setup, cfg *Config) *System {
	return &System{setup: setup, cfg: cfg}
}

// Propose draws two sites independently and uniformly and exchanges their
// species. It reports whether both sites held the same species, in which
// case the exchange left the configuration unchanged.
func (y *System) Propose(rng *rand.Rand) bool {
	a := y.setup.RdmSite(rng)
	b := y.setup.RdmSite(rng)
	same := y.cfg.At(a) == y.cfg.At(b)
	PairSwap(y.cfg, a, b)
	y.lastA, y.lastB = a, b
	y.proposed = true
	return same
}

// Energy returns the total energy of the current configuration.
func (y *System) Energy() float64 {
	return y.setup.FullEnergy(y.cfg)
}

// Revert undoes the exchange of the most recent Propose.
func (y *System) Revert() {
	if !y.proposed {
		return
	}
	PairSwap(y.cfg, y.lastA, y.lastB)
	y.proposed = false
}

// Config exposes the underlying configuration for inspection in diagnostics.
func (y *System) Config() *Config {
	return y.cfg
}
