package analysis

import (
	"context"
	"time"

	"github.com/odebench/odebench/internal/bench"
	"github.com/odebench/odebench/internal/ode"
)

// Point is one tolerance level of a work-precision sweep.
type Point struct {
	Tol     float64
	Err     float64
	Elapsed time.Duration
	Steps   int
	Evals   int
}

// WorkPrecision measures a strategy across a tolerance sweep. Each
// tolerance is applied as rtol with atol two orders tighter, the usual
// convention for these diagrams. The error at each point is the
// absolute distance to a shared tight-tolerance reference.
func WorkPrecision(ctx context.Context, prob ode.Problem, strat ode.Strategy, tols []float64) ([]Point, error) {
	ref, err := Reference(ctx, prob)
	if err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(tols))
	for _, tol := range tols {
		cfg := ode.DefaultConfig()
		cfg.Rtol = tol
		cfg.Atol = tol * 1e-2

		tm, err := bench.Run(ctx, prob, strat, cfg)
		if err != nil {
			return points, err
		}

		points = append(points, Point{
			Tol:     tol,
			Err:     AbsoluteError(tm.FinalY, ref),
			Elapsed: tm.Elapsed,
			Steps:   tm.Stats.Steps,
			Evals:   tm.Stats.Evals,
		})
	}
	return points, nil
}
