package ensemble

import (
	"context"
	"math"
	"testing"

	"github.com/odebench/odebench/internal/ode"
	"github.com/odebench/odebench/internal/problems"
)

func TestRunIsDeterministicForASeed(t *testing.T) {
	prob := problems.Oscillator()
	strat := ode.Strategy{Algorithm: ode.AlgoRK4}
	solveCfg := ode.Config{InitialStep: 0.01}
	cfg := Config{Members: 8, Spread: 0.05, Seed: 42}

	a := Run(context.Background(), prob, strat, solveCfg, cfg)
	b := Run(context.Background(), prob, strat, solveCfg, cfg)

	if len(a) != cfg.Members || len(b) != cfg.Members {
		t.Fatalf("got %d and %d members, want %d", len(a), len(b), cfg.Members)
	}

	for i := range a {
		if a[i].Err != nil {
			t.Fatalf("member %d failed: %v", i, a[i].Err)
		}
		for j := range a[i].Y0 {
			if a[i].Y0[j] != b[i].Y0[j] {
				t.Errorf("member %d component %d differs across runs: %g vs %g",
					i, j, a[i].Y0[j], b[i].Y0[j])
			}
		}
	}
}

func TestRunPerturbsAroundTheNominalStart(t *testing.T) {
	prob := problems.Oscillator()
	cfg := Config{Members: 16, Spread: 0.1, Seed: 1}

	members := Run(context.Background(), prob, ode.Strategy{Algorithm: ode.AlgoRK4},
		ode.Config{InitialStep: 0.01}, cfg)

	distinct := false
	for _, m := range members {
		for j, v := range m.Y0 {
			nominal := prob.Y0[j]
			if nominal != 0 && math.Abs(v-nominal) > math.Abs(nominal)*cfg.Spread*1.0001 {
				t.Errorf("member %d component %d perturbed past the spread: %g vs %g", m.Index, j, v, nominal)
			}
			if v != nominal {
				distinct = true
			}
		}
	}
	if !distinct {
		t.Error("no member was perturbed at all")
	}
}

func TestSpreadGrowsOnChaoticDynamics(t *testing.T) {
	lorenz := problems.Lorenz(10, 28, 8.0/3.0)
	osc := problems.Oscillator()

	strat := ode.Strategy{Algorithm: ode.AlgoDopri}
	solveCfg := ode.DefaultConfig()
	cfg := Config{Members: 6, Spread: 1e-4, Seed: 7}

	chaotic := Spread(Run(context.Background(), lorenz, strat, solveCfg, cfg))
	regular := Spread(Run(context.Background(), osc, strat, solveCfg, cfg))

	if chaotic <= regular {
		t.Errorf("expected chaotic spread (%g) to exceed regular spread (%g)", chaotic, regular)
	}
}

func TestRunKeepsFailedMembers(t *testing.T) {
	prob := problems.Oscillator()
	prob.RHS = nil

	members := Run(context.Background(), prob, ode.Strategy{}, ode.Config{}, Config{Members: 3})
	for _, m := range members {
		if m.Err == nil {
			t.Errorf("member %d: expected an error for a problem with no right-hand side", m.Index)
		}
	}
}
