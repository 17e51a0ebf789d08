package lattice

import (
	"math"
	"math/rand"
	"testing"
)

func testSetup(t *testing.T) *Setup {
	t.Helper()
	setup, err := NewSetup(4, 4, 4,
		[][3]float64{{0, 0, 0}, {0.5, 0.5, 0.5}},
		[]float64{0.5, 0.5},
		[][][]float64{
			{{0, -0.001}, {-0.001, 0}},
			{{0, 0.0005}, {0.0005, 0}},
		})
	if err != nil {
		t.Fatalf("new setup: %v", err)
	}
	return setup
}

func TestPairSwapIsItsOwnInverse(t *testing.T) {
	setup := testSetup(t)
	rng := rand.New(rand.NewSource(1))
	cfg := setup.NewConfig()
	InitialSetup(setup, cfg, rng)
	before := cfg.Clone()

	a := Site{I: 0, J: 1, K: 2, L: 0}
	b := Site{I: 3, J: 0, K: 1, L: 1}
	PairSwap(cfg, a, b)
	PairSwap(cfg, a, b)

	if !cfg.Equal(before) {
		t.Fatal("double swap did not restore the configuration")
	}
}

func TestFullEnergyDeterministic(t *testing.T) {
	setup := testSetup(t)
	rng := rand.New(rand.NewSource(2))
	cfg := setup.NewConfig()
	InitialSetup(setup, cfg, rng)

	e1 := setup.FullEnergy(cfg)
	e2 := setup.FullEnergy(cfg)
	if e1 != e2 {
		t.Fatalf("energy not deterministic: %v vs %v", e1, e2)
	}
}

func TestFullEnergyRestoredAfterRollback(t *testing.T) {
	setup := testSetup(t)
	rng := rand.New(rand.NewSource(3))
	cfg := setup.NewConfig()
	InitialSetup(setup, cfg, rng)

	var a, b Site
	found := false
	for i := 0; i < 1000 && !found; i++ {
		a, b = setup.RdmSite(rng), setup.RdmSite(rng)
		found = cfg.At(a) != cfg.At(b)
	}
	if !found {
		t.Fatal("no unequal pair found")
	}

	before := setup.FullEnergy(cfg)
	PairSwap(cfg, a, b)
	PairSwap(cfg, a, b)
	if restored := setup.FullEnergy(cfg); restored != before {
		t.Fatalf("energy not restored after rollback: %v vs %v", restored, before)
	}
}

func TestInitialSetupConcentrations(t *testing.T) {
	setup := testSetup(t)
	rng := rand.New(rand.NewSource(4))
	cfg := setup.NewConfig()
	InitialSetup(setup, cfg, rng)

	counts := make([]int, setup.NumSpecies)
	for _, sp := range cfg.Species {
		counts[sp]++
	}
	n := cfg.Sites()
	for sp, count := range counts {
		want := setup.Concentrations[sp] * float64(n)
		if math.Abs(float64(count)-want) > 1 {
			t.Fatalf("species %d count %d, want about %.1f", sp, count, want)
		}
	}
}

func TestRdmSiteBounds(t *testing.T) {
	setup := testSetup(t)
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 1000; i++ {
		s := setup.RdmSite(rng)
		if s.I < 0 || s.I >= setup.Nx || s.J < 0 || s.J >= setup.Ny ||
			s.K < 0 || s.K >= setup.Nz || s.L < 0 || s.L >= setup.NB() {
			t.Fatalf("site out of bounds: %+v", s)
		}
	}
}

func TestSystemProposeRevert(t *testing.T) {
	setup := testSetup(t)
	rng := rand.New(rand.NewSource(6))
	cfg := setup.NewConfig()
	InitialSetup(setup, cfg, rng)
	sys := NewSystem(setup, cfg)

	before := cfg.Clone()
	sys.Propose(rng)
	sys.Revert()
	if !cfg.Equal(before) {
		t.Fatal("revert did not restore the configuration")
	}
}

func TestNewSetupValidation(t *testing.T) {
	basis := [][3]float64{{0, 0, 0}}
	inter := [][][]float64{{{0, 0}, {0, 0}}}

	cases := []struct {
		name           string
		nx             int
		concentrations []float64
		interactions   [][][]float64
	}{
		{name: "zero extent", nx: 0, concentrations: []float64{0.5, 0.5}, interactions: inter},
		{name: "one species", nx: 2, concentrations: []float64{1}, interactions: inter},
		{name: "bad sum", nx: 2, concentrations: []float64{0.5, 0.6}, interactions: inter},
		{name: "no shells", nx: 2, concentrations: []float64{0.5, 0.5}, interactions: nil},
		{name: "ragged matrix", nx: 2, concentrations: []float64{0.5, 0.5}, interactions: [][][]float64{{{0}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewSetup(tc.nx, 2, 2, basis, tc.concentrations, tc.interactions); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
