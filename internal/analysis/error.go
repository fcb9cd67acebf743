package analysis

import (
	"context"
	"math"

	"github.com/odebench/odebench/internal/ode"
	"github.com/odebench/odebench/internal/solver"
)

const (
	refAtol = 1e-12
	refRtol = 1e-10
)

// Reference solves the problem at tight tolerances and returns the
// final state. Strategy quirks are deliberately excluded: the
// reference always uses the default strategy so every candidate is
// judged against the same yardstick.
func Reference(ctx context.Context, prob ode.Problem) (ode.State, error) {
	cfg := ode.DefaultConfig()
	cfg.Atol = refAtol
	cfg.Rtol = refRtol

	sol, err := solver.Solve(ctx, prob, ode.DefaultStrategy(), cfg)
	if err != nil {
		return nil, err
	}
	_, y := sol.Last()
	return y, nil
}

// ReferenceError is the weighted RMS distance between a final state
// and the reference, using the same mixed tolerance scale the solvers
// step with. Values near or below 1 mean the run met its tolerance.
func ReferenceError(y, ref ode.State, atol, rtol float64) float64 {
	if len(y) != len(ref) {
		return math.Inf(1)
	}
	sum := 0.0
	for i := range y {
		sc := atol + rtol*math.Abs(ref[i])
		r := (y[i] - ref[i]) / sc
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(y)))
}

// AbsoluteError is the plain Euclidean distance to the reference.
func AbsoluteError(y, ref ode.State) float64 {
	if len(y) != len(ref) {
		return math.Inf(1)
	}
	return y.Sub(ref).Norm()
}
