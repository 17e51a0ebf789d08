package lattice

// FullEnergy returns the total energy of cfg under the setup Hamiltonian,
// summing the shell-resolved pair interactions over every site. The scan
// visits each pair from both ends, so the accumulated sum is halved. The
// result is deterministic for a given configuration.
func (s *Setup) FullEnergy(cfg *Config) float64 {
	total := 0.0
	for i := 0; i < cfg.Nx; i++ {
		for j := 0; j < cfg.Ny; j++ {
			for k := 0; k < cfg.Nz; k++ {
				for l := 0; l < cfg.NB; l++ {
					sp1 := cfg.At(Site{I: i, J: j, K: k, L: l})
					for shell, neighbors := range s.neighbors[l] {
						v := s.Interactions[shell]
						for _, n := range neighbors {
							site := Site{
								I: wrap(i+n.di, cfg.Nx),
								J: wrap(j+n.dj, cfg.Ny),
								K: wrap(k+n.dk, cfg.Nz),
								L: n.l,
							}
							total += v[sp1][cfg.At(site)]
						}
					}
				}
			}
		}
	}
	return total / 2
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
