package analysis

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/odebench/odebench/internal/ode"
	"github.com/odebench/odebench/internal/problems"
)

func TestReferenceMatchesClosedForm(t *testing.T) {
	prob := problems.Oscillator()

	ref, err := Reference(context.Background(), prob)
	if err != nil {
		t.Fatal(err)
	}

	// y'' = -y from (1, 0) is (cos t, -sin t).
	want := []float64{math.Cos(prob.T1), -math.Sin(prob.T1)}
	for i := range want {
		if math.Abs(ref[i]-want[i]) > 1e-6 {
			t.Errorf("component %d: got %g, want %g", i, ref[i], want[i])
		}
	}
}

func TestReferenceError(t *testing.T) {
	ref := ode.State{1, 0, 0}

	if got := ReferenceError(ode.State{1, 0, 0}, ref, 1e-8, 1e-6); got != 0 {
		t.Errorf("identical states should have zero error, got %g", got)
	}

	near := ReferenceError(ode.State{1 + 1e-9, 0, 0}, ref, 1e-8, 1e-6)
	far := ReferenceError(ode.State{1.1, 0, 0}, ref, 1e-8, 1e-6)
	if near >= far {
		t.Errorf("error should grow with distance: near=%g far=%g", near, far)
	}

	if !math.IsInf(ReferenceError(ode.State{1}, ref, 1e-8, 1e-6), 1) {
		t.Error("dimension mismatch should report infinite error")
	}
}

func TestWorkPrecisionSweep(t *testing.T) {
	prob := problems.Oscillator()
	strat := ode.Strategy{Algorithm: ode.AlgoDopri}
	tols := []float64{1e-3, 1e-6, 1e-9}

	points, err := WorkPrecision(context.Background(), prob, strat, tols)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != len(tols) {
		t.Fatalf("expected %d points, got %d", len(tols), len(points))
	}

	// Tighter tolerance has to buy more accuracy and cost more steps.
	if points[2].Err >= points[0].Err {
		t.Errorf("error did not shrink with tolerance: %g at %g vs %g at %g",
			points[0].Err, points[0].Tol, points[2].Err, points[2].Tol)
	}
	if points[2].Steps <= points[0].Steps {
		t.Errorf("steps did not grow with tolerance: %d vs %d", points[0].Steps, points[2].Steps)
	}
}

func TestWorkPrecisionPropagatesStrategyErrors(t *testing.T) {
	// A problem that can be referenced but cannot carry derivatives
	// through its right-hand side.
	prob := problems.Oscillator()
	prob.DualRHS = nil
	prob.Jac = nil

	strat := ode.Strategy{
		Algorithm: ode.AlgoRosenbrock,
		Jacobian:  ode.JacAutodiff,
		Linear:    ode.LinDense,
	}

	_, err := WorkPrecision(context.Background(), prob, strat, []float64{1e-6})
	if !errors.Is(err, ode.ErrDualIncompatible) {
		t.Fatalf("expected ErrDualIncompatible, got %v", err)
	}
}
