package ode

import (
	"math"

	"github.com/odebench/odebench/internal/dual"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// RHS evaluates dy/dt into dy. Implementations may keep scratch storage
// between calls; dy is always fully overwritten.
type RHS func(t float64, y, dy []float64)

// DualRHS is the dual-number form of a right-hand side. A problem that
// provides one can be differentiated with forward-mode autodiff; a
// problem whose RHS reuses fixed float64 scratch buffers cannot, and
// must leave this nil.
type DualRHS func(t float64, y, dy []dual.Number)

// Jac writes the analytic Jacobian df/dy into dst, row-major.
// dst has StateDim rows of StateDim columns.
type Jac func(t float64, y []float64, dst [][]float64)

// Problem bundles a state-evolution function, an initial state, an
// integration span and parameters. Treated as immutable once built.
type Problem struct {
	Name    string
	RHS     RHS
	DualRHS DualRHS
	Jac     Jac

	Y0     []float64
	T0, T1 float64
	Params []float64

	// Banded declares a known Jacobian band structure with ML
	// sub-diagonals and MU super-diagonals.
	Banded bool
	ML, MU int
}

func (p Problem) Dim() int { return len(p.Y0) }

// Algorithm names accepted by Strategy.
const (
	AlgoAuto       = "auto"
	AlgoEuler      = "euler"
	AlgoRK4        = "rk4"
	AlgoDopri      = "dopri"
	AlgoRosenbrock = "rosenbrock"
)

// Jacobian modes accepted by Strategy.
const (
	JacAutodiff   = "autodiff"
	JacFiniteDiff = "finitediff"
	JacAnalytic   = "analytic"
	JacBanded     = "banded"
)

// Linear solver kinds accepted by Strategy.
const (
	LinDense  = "dense"
	LinBanded = "banded"
	LinGMRES  = "gmres"
)

// Strategy selects the algorithmic variant used to solve a Problem.
// Zero-value fields fall back to the defaults in DefaultStrategy.
type Strategy struct {
	Algorithm string
	Jacobian  string
	Linear    string

	// Preconditioner, if set, is applied as a right preconditioner by
	// the GMRES linear solver. Ignored by the direct solvers.
	Preconditioner func(v []float64) []float64
}

func DefaultStrategy() Strategy {
	return Strategy{
		Algorithm: AlgoAuto,
		Jacobian:  JacAutodiff,
		Linear:    LinDense,
	}
}

// Config holds tolerances and step bounds for a solve.
type Config struct {
	InitialStep float64
	MinStep     float64
	MaxStep     float64
	Atol        float64
	Rtol        float64
	MaxSteps    int

	// OnStep, if set, is called after every accepted step. Returning
	// false stops the solve early without error.
	OnStep func(t float64, y []float64) bool
}

func DefaultConfig() Config {
	return Config{
		MinStep:  1e-14,
		Atol:     1e-8,
		Rtol:     1e-6,
		MaxSteps: 1_000_000,
	}
}

// Stats counts the work a solve performed.
type Stats struct {
	Steps     int
	Rejected  int
	Evals     int
	JacEvals  int
	LinSolves int
	LastStep  float64
}

// Solution is the trajectory of one solve: accepted step times, the
// state at each, and the work counters.
type Solution struct {
	Ts    []float64
	Ys    []State
	Stats Stats
}

// Last returns the final accepted time and state, or (0, nil) for an
// empty solution.
func (s *Solution) Last() (float64, State) {
	if len(s.Ys) == 0 {
		return 0, nil
	}
	return s.Ts[len(s.Ts)-1], s.Ys[len(s.Ys)-1]
}
