// Package solver integrates initial value problems under a selected
// strategy. The entry point is [Solve]; the algorithm, Jacobian mode
// and linear solver all come from the ode.Strategy passed in, so the
// same problem can be timed under different variants without touching
// its definition.
package solver

import (
	"context"
	"fmt"
	"math"

	"github.com/odebench/odebench/internal/ode"
)

// Solve integrates prob from T0 to T1 under the given strategy and
// config. Incompatibilities between the strategy and the problem (for
// example an autodiff Jacobian against a problem with no dual-capable
// right-hand side) surface as errors before any stepping starts.
func Solve(ctx context.Context, prob ode.Problem, strat ode.Strategy, cfg ode.Config) (*ode.Solution, error) {
	strat = normalizeStrategy(strat)
	cfg = normalizeConfig(cfg)

	if err := validate(prob, cfg); err != nil {
		return nil, err
	}

	switch pick(prob, strat) {
	case ode.AlgoEuler:
		return fixedStep(ctx, prob, cfg, eulerStep)
	case ode.AlgoRK4:
		return fixedStep(ctx, prob, cfg, rk4Step)
	case ode.AlgoDopri:
		return dopri(ctx, prob, cfg)
	case ode.AlgoRosenbrock:
		return rosenbrock(ctx, prob, strat, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ode.ErrUnknownAlgorithm, strat.Algorithm)
	}
}

// pick resolves "auto": problems that offer cheap Jacobians (a dual
// right-hand side, an analytic Jacobian or declared band structure)
// get the stiff Rosenbrock method, everything else the adaptive
// Dormand-Prince pair.
func pick(prob ode.Problem, strat ode.Strategy) string {
	if strat.Algorithm != ode.AlgoAuto {
		return strat.Algorithm
	}
	if prob.DualRHS != nil || prob.Jac != nil || prob.Banded {
		return ode.AlgoRosenbrock
	}
	return ode.AlgoDopri
}

func normalizeStrategy(s ode.Strategy) ode.Strategy {
	def := ode.DefaultStrategy()
	if s.Algorithm == "" {
		s.Algorithm = def.Algorithm
	}
	if s.Jacobian == "" {
		s.Jacobian = def.Jacobian
	}
	if s.Linear == "" {
		s.Linear = def.Linear
	}
	return s
}

func normalizeConfig(c ode.Config) ode.Config {
	def := ode.DefaultConfig()
	if c.Atol <= 0 {
		c.Atol = def.Atol
	}
	if c.Rtol <= 0 {
		c.Rtol = def.Rtol
	}
	if c.MinStep <= 0 {
		c.MinStep = def.MinStep
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = def.MaxSteps
	}
	return c
}

func validate(prob ode.Problem, cfg ode.Config) error {
	if prob.RHS == nil {
		return fmt.Errorf("problem %q has no right-hand side", prob.Name)
	}
	if len(prob.Y0) == 0 {
		return fmt.Errorf("problem %q has an empty initial state", prob.Name)
	}
	if prob.T1 <= prob.T0 {
		return fmt.Errorf("problem %q has a non-positive span: [%g, %g]", prob.Name, prob.T0, prob.T1)
	}
	if cfg.InitialStep < 0 {
		return fmt.Errorf("initial step must be non-negative, got %g", cfg.InitialStep)
	}
	return nil
}

// stepFn advances y by dt in place, using t as the current time.
type stepFn func(t, dt float64, y []float64)

// stepBuilder binds a problem and the stats counter into a stepFn.
type stepBuilder func(prob ode.Problem, stats *ode.Stats) stepFn

// fixedStep runs a constant-step explicit method over the whole span.
func fixedStep(ctx context.Context, prob ode.Problem, cfg ode.Config, build stepBuilder) (*ode.Solution, error) {
	dt := cfg.InitialStep
	if dt <= 0 {
		dt = (prob.T1 - prob.T0) / 1000
	}

	steps := int(math.Ceil((prob.T1 - prob.T0) / dt))
	if cfg.MaxSteps > 0 && steps > cfg.MaxSteps {
		return nil, fmt.Errorf("%w: fixed step %g needs %d steps", ode.ErrMaxSteps, dt, steps)
	}

	sol := &ode.Solution{
		Ts: make([]float64, 0, steps+1),
		Ys: make([]ode.State, 0, steps+1),
	}
	step := build(prob, &sol.Stats)

	y := ode.State(prob.Y0).Clone()
	t := prob.T0
	record(sol, t, y)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return sol, ctx.Err()
		default:
		}

		h := dt
		if t+h > prob.T1 {
			h = prob.T1 - t
		}

		step(t, h, y)
		t += h
		sol.Stats.Steps++
		sol.Stats.LastStep = h

		if !y.IsValid() {
			return sol, &ode.StepError{Step: i, Time: t, Wrapped: ode.ErrUnstable}
		}

		record(sol, t, y)
		if cfg.OnStep != nil && !cfg.OnStep(t, y) {
			return sol, nil
		}
	}

	return sol, nil
}

func record(sol *ode.Solution, t float64, y ode.State) {
	sol.Ts = append(sol.Ts, t)
	sol.Ys = append(sol.Ys, y.Clone())
}

// errorNorm is the weighted RMS of the local error estimate against
// the mixed absolute/relative tolerance scale.
func errorNorm(errEst, y, yNew []float64, atol, rtol float64) float64 {
	sum := 0.0
	for i := range errEst {
		sc := atol + rtol*math.Max(math.Abs(y[i]), math.Abs(yNew[i]))
		r := errEst[i] / sc
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(errEst)))
}

// initialStep estimates a starting step from the scaled size of the
// state and its first derivative (Hairer's h0 heuristic, simplified).
func initialStep(prob ode.Problem, y, f0 []float64, atol, rtol float64) float64 {
	dnf, dny := 0.0, 0.0
	for i := range y {
		sc := atol + rtol*math.Abs(y[i])
		dnf += (f0[i] / sc) * (f0[i] / sc)
		dny += (y[i] / sc) * (y[i] / sc)
	}

	var h float64
	if math.Min(dnf, dny) < 1e-10 {
		h = 1e-6
	} else {
		h = 1e-2 * math.Sqrt(dny/dnf)
	}

	span := prob.T1 - prob.T0
	return math.Min(h, span/10)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
