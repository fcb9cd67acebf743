// Package ensemble runs the same problem and strategy over a batch of
// perturbed initial conditions. Members are independent, so the batch
// is dispatched through the compute backend.
package ensemble

import (
	"context"
	"math/rand"

	"github.com/odebench/odebench/internal/compute"
	"github.com/odebench/odebench/internal/ode"
	"github.com/odebench/odebench/internal/solver"
)

type Config struct {
	Members int
	Spread  float64 // relative perturbation of each initial component
	Seed    int64
}

// Member is one ensemble trajectory plus the perturbed start it came
// from. Err is per-member: one diverging trajectory does not abort the
// batch.
type Member struct {
	Index    int
	Y0       ode.State
	Solution *ode.Solution
	Err      error
}

// Run solves cfg.Members perturbed copies of prob. Each member gets a
// deterministic derived seed, so a run is reproducible regardless of
// how the backend schedules the batch.
func Run(ctx context.Context, prob ode.Problem, strat ode.Strategy, solveCfg ode.Config, cfg Config) []Member {
	if cfg.Members < 1 {
		cfg.Members = 1
	}

	members := make([]Member, cfg.Members)
	compute.GetBackend().RunBatch(cfg.Members, func(i int) {
		rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))

		p := prob
		p.Y0 = perturb(rng, prob.Y0, cfg.Spread)

		sol, err := solver.Solve(ctx, p, strat, solveCfg)
		members[i] = Member{Index: i, Y0: ode.State(p.Y0), Solution: sol, Err: err}
	})
	return members
}

// perturb scales each component by 1 + spread*u with u uniform in
// [-1, 1). Zero components get an additive kick instead, otherwise
// they would never move.
func perturb(rng *rand.Rand, y0 []float64, spread float64) []float64 {
	out := make([]float64, len(y0))
	for i, v := range y0 {
		u := 2*rng.Float64() - 1
		if v != 0 {
			out[i] = v * (1 + spread*u)
		} else {
			out[i] = spread * u
		}
	}
	return out
}

// Spread reports the max pairwise distance between member end states,
// ignoring failed members. It is the quick scalar answer to "did the
// perturbations stay together or fly apart".
func Spread(members []Member) float64 {
	finals := make([]ode.State, 0, len(members))
	for _, m := range members {
		if m.Err != nil || m.Solution == nil || len(m.Solution.Ys) == 0 {
			continue
		}
		_, y := m.Solution.Last()
		finals = append(finals, y)
	}

	max := 0.0
	for i := 0; i < len(finals); i++ {
		for j := i + 1; j < len(finals); j++ {
			if d := finals[i].Sub(finals[j]).Norm(); d > max {
				max = d
			}
		}
	}
	return max
}
