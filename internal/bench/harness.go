// Package bench times solver strategies against problems. A
// measurement always runs the solve twice: once to warm caches and
// one-time setup, once under the clock, so the reported duration
// reflects steady-state cost.
package bench

import (
	"context"
	"time"

	"github.com/odebench/odebench/internal/ode"
	"github.com/odebench/odebench/internal/solver"
)

// Timing is the result of one measured solve.
type Timing struct {
	Problem   string
	Strategy  ode.Strategy
	Elapsed   time.Duration
	Stats     ode.Stats
	FinalTime float64
	FinalY    ode.State
}

// Run measures one strategy on one problem. The warm-up solve and the
// timed solve use identical inputs; strategy/problem incompatibilities
// surface from the warm-up before any time is spent on the clock.
func Run(ctx context.Context, prob ode.Problem, strat ode.Strategy, cfg ode.Config) (Timing, error) {
	if _, err := solver.Solve(ctx, prob, strat, cfg); err != nil {
		return Timing{}, err
	}

	start := time.Now()
	sol, err := solver.Solve(ctx, prob, strat, cfg)
	elapsed := time.Since(start)
	if err != nil {
		return Timing{}, err
	}

	t, y := sol.Last()
	return Timing{
		Problem:   prob.Name,
		Strategy:  strat,
		Elapsed:   elapsed,
		Stats:     sol.Stats,
		FinalTime: t,
		FinalY:    y,
	}, nil
}

// RunBest measures a strategy over multiple repetitions and keeps the
// fastest.
func RunBest(ctx context.Context, prob ode.Problem, strat ode.Strategy, cfg ode.Config, reps int) (Timing, error) {
	if reps < 1 {
		reps = 1
	}

	best, err := Run(ctx, prob, strat, cfg)
	if err != nil {
		return Timing{}, err
	}
	for i := 1; i < reps; i++ {
		tm, err := Run(ctx, prob, strat, cfg)
		if err != nil {
			return Timing{}, err
		}
		if tm.Elapsed < best.Elapsed {
			best = tm
		}
	}
	return best, nil
}
