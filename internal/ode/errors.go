package ode

import (
	"errors"
	"fmt"
)

// Domain errors for solve operations.
var (
	// ErrDualIncompatible indicates an autodiff Jacobian was requested
	// for a problem whose right-hand side cannot accept dual numbers
	// (typically because it reuses fixed float64 scratch storage).
	ErrDualIncompatible = errors.New("ode: autodiff requires a dual-capable right-hand side")

	// ErrNoAnalyticJacobian indicates the analytic Jacobian mode was
	// requested for a problem that does not define one.
	ErrNoAnalyticJacobian = errors.New("ode: problem has no analytic jacobian")

	// ErrNotBanded indicates a banded Jacobian or linear solver was
	// requested for a problem without declared band structure.
	ErrNotBanded = errors.New("ode: problem declares no jacobian bandwidth")

	// ErrUnknownAlgorithm indicates an unrecognized Strategy.Algorithm.
	ErrUnknownAlgorithm = errors.New("ode: unknown algorithm")

	// ErrUnknownJacobian indicates an unrecognized Strategy.Jacobian.
	ErrUnknownJacobian = errors.New("ode: unknown jacobian mode")

	// ErrUnknownLinear indicates an unrecognized Strategy.Linear.
	ErrUnknownLinear = errors.New("ode: unknown linear solver")

	// ErrUnstable indicates the state picked up NaN or Inf entries.
	ErrUnstable = errors.New("ode: state diverged (NaN or Inf)")

	// ErrStepTooSmall indicates the adaptive step fell below MinStep.
	ErrStepTooSmall = errors.New("ode: step size below minimum")

	// ErrMaxSteps indicates MaxSteps was reached before the end of the span.
	ErrMaxSteps = errors.New("ode: maximum step count exceeded")

	// ErrSingular indicates a singular matrix in a direct linear solve.
	ErrSingular = errors.New("ode: singular iteration matrix")

	// ErrNoConvergence indicates the iterative linear solver stalled.
	ErrNoConvergence = errors.New("ode: linear solver did not converge")
)

// StepError wraps an error with the step at which it occurred.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
