package solver

import (
	"context"
	"fmt"
	"math"

	"github.com/odebench/odebench/internal/compute"
	"github.com/odebench/odebench/internal/jacobian"
	"github.com/odebench/odebench/internal/linalg"
	"github.com/odebench/odebench/internal/ode"
)

// ode23s-style Rosenbrock constants.
var (
	rbD   = 1.0 / (2.0 + math.Sqrt2)
	rbE32 = 6.0 + math.Sqrt2
)

const (
	rbSafety   = 0.9
	rbMinScale = 0.2
	rbMaxScale = 5.0
)

// wSolver owns the iteration matrix W = I - h*d*J for one strategy:
// prepare builds (and factors) it at the current state, solve applies
// W^-1.
type wSolver interface {
	prepare(t float64, y, f0 []float64, hd float64) error
	solve(b, x []float64) error
}

// rosenbrock integrates with a second-order Rosenbrock pair. Each step
// takes three right-hand side evaluations, one Jacobian and three
// linear solves against the same factored W.
func rosenbrock(ctx context.Context, prob ode.Problem, strat ode.Strategy, cfg ode.Config) (*ode.Solution, error) {
	sol := &ode.Solution{}

	ws, err := newWSolver(prob, strat, &sol.Stats)
	if err != nil {
		return nil, err
	}

	n := prob.Dim()
	y := ode.State(prob.Y0).Clone()
	t := prob.T0
	record(sol, t, y)

	f0 := make([]float64, n)
	f1 := make([]float64, n)
	f2 := make([]float64, n)
	k1 := make([]float64, n)
	k2 := make([]float64, n)
	k3 := make([]float64, n)
	stage := make([]float64, n)
	yNew := make([]float64, n)
	rhs := make([]float64, n)
	errEst := make([]float64, n)

	prob.RHS(t, y, f0)
	sol.Stats.Evals++

	h := cfg.InitialStep
	if h <= 0 {
		h = initialStep(prob, y, f0, cfg.Atol, cfg.Rtol)
	}

	for t < prob.T1 {
		select {
		case <-ctx.Done():
			return sol, ctx.Err()
		default:
		}

		if sol.Stats.Steps+sol.Stats.Rejected >= cfg.MaxSteps {
			return sol, &ode.StepError{Step: sol.Stats.Steps, Time: t, Wrapped: ode.ErrMaxSteps}
		}
		if h < cfg.MinStep {
			return sol, &ode.StepError{Step: sol.Stats.Steps, Time: t, Wrapped: ode.ErrStepTooSmall}
		}
		if cfg.MaxStep > 0 && h > cfg.MaxStep {
			h = cfg.MaxStep
		}
		if t+h > prob.T1 {
			h = prob.T1 - t
		}

		if err := ws.prepare(t, y, f0, h*rbD); err != nil {
			return sol, &ode.StepError{Step: sol.Stats.Steps, Time: t, Wrapped: err}
		}

		if err := ws.solve(f0, k1); err != nil {
			return sol, &ode.StepError{Step: sol.Stats.Steps, Time: t, Wrapped: err}
		}

		for i := 0; i < n; i++ {
			stage[i] = y[i] + 0.5*h*k1[i]
		}
		prob.RHS(t+0.5*h, stage, f1)

		for i := 0; i < n; i++ {
			rhs[i] = f1[i] - k1[i]
		}
		if err := ws.solve(rhs, k2); err != nil {
			return sol, &ode.StepError{Step: sol.Stats.Steps, Time: t, Wrapped: err}
		}
		for i := 0; i < n; i++ {
			k2[i] += k1[i]
		}

		for i := 0; i < n; i++ {
			yNew[i] = y[i] + h*k2[i]
		}
		prob.RHS(t+h, yNew, f2)
		sol.Stats.Evals += 2

		for i := 0; i < n; i++ {
			rhs[i] = f2[i] - rbE32*(k2[i]-f1[i]) - 2*(k1[i]-f0[i])
		}
		if err := ws.solve(rhs, k3); err != nil {
			return sol, &ode.StepError{Step: sol.Stats.Steps, Time: t, Wrapped: err}
		}

		for i := 0; i < n; i++ {
			errEst[i] = (h / 6.0) * (k1[i] - 2*k2[i] + k3[i])
		}
		norm := errorNorm(errEst, y, yNew, cfg.Atol, cfg.Rtol)

		if norm > 1 {
			sol.Stats.Rejected++
			h *= clamp(rbSafety*math.Pow(norm, -1.0/3.0), rbMinScale, rbMaxScale)
			continue
		}

		copy(y, yNew)
		copy(f0, f2)
		t += h
		sol.Stats.Steps++
		sol.Stats.LastStep = h

		if !y.IsValid() {
			return sol, &ode.StepError{Step: sol.Stats.Steps, Time: t, Wrapped: ode.ErrUnstable}
		}
		record(sol, t, y)
		if cfg.OnStep != nil && !cfg.OnStep(t, y) {
			return sol, nil
		}

		if norm > 0 {
			h *= clamp(rbSafety*math.Pow(norm, -1.0/3.0), rbMinScale, rbMaxScale)
		} else {
			h *= rbMaxScale
		}
	}

	return sol, nil
}

// newWSolver wires the Jacobian mode and linear solver from the
// strategy. Banded overrides dense when either side asks for it; GMRES
// goes matrix-free when the Jacobian mode is finite differences.
func newWSolver(prob ode.Problem, strat ode.Strategy, stats *ode.Stats) (wSolver, error) {
	switch {
	case strat.Linear == ode.LinBanded || strat.Jacobian == ode.JacBanded:
		eval, err := jacobian.NewBanded(prob)
		if err != nil {
			return nil, err
		}
		return &bandedW{eval: eval, W: linalg.NewBanded(prob.Dim(), prob.ML, prob.MU), stats: stats}, nil

	case strat.Linear == ode.LinGMRES:
		kw := &krylovW{
			prob:    prob,
			precond: strat.Preconditioner,
			stats:   stats,
			y:       make([]float64, prob.Dim()),
			f0:      make([]float64, prob.Dim()),
			yPert:   make([]float64, prob.Dim()),
			fPert:   make([]float64, prob.Dim()),
		}
		if strat.Jacobian != ode.JacFiniteDiff {
			eval, err := jacobian.NewDense(prob, strat.Jacobian)
			if err != nil {
				return nil, err
			}
			kw.eval = eval
		}
		return kw, nil

	case strat.Linear == ode.LinDense:
		eval, err := jacobian.NewDense(prob, strat.Jacobian)
		if err != nil {
			return nil, err
		}
		return &denseW{eval: eval, W: linalg.NewDense(prob.Dim(), prob.Dim()), stats: stats}, nil

	default:
		return nil, fmt.Errorf("%w: %s", ode.ErrUnknownLinear, strat.Linear)
	}
}

type denseW struct {
	eval  *jacobian.Dense
	W     *linalg.Dense
	stats *ode.Stats
}

func (d *denseW) prepare(t float64, y, f0 []float64, hd float64) error {
	if err := d.eval.Eval(t, y, f0); err != nil {
		return err
	}
	d.stats.JacEvals++

	n := d.W.Rows()
	J := d.eval.Matrix()
	for i := 0; i < n; i++ {
		wRow := d.W.Row(i)
		jRow := J.Row(i)
		for j := 0; j < n; j++ {
			wRow[j] = -hd * jRow[j]
		}
		wRow[i] += 1
	}

	if err := d.W.Factor(); err != nil {
		return ode.ErrSingular
	}
	return nil
}

func (d *denseW) solve(b, x []float64) error {
	d.stats.LinSolves++
	return d.W.Solve(b, x)
}

type bandedW struct {
	eval  *jacobian.Banded
	W     *linalg.Banded
	stats *ode.Stats
}

func (b *bandedW) prepare(t float64, y, f0 []float64, hd float64) error {
	if err := b.eval.Eval(t, y, f0); err != nil {
		return err
	}
	b.stats.JacEvals++

	n := b.W.Dim()
	ml, mu := b.W.Bandwidth()
	b.W.Zero()
	J := b.eval.Matrix()
	for j := 0; j < n; j++ {
		lo := j - mu
		if lo < 0 {
			lo = 0
		}
		hi := j + ml
		if hi > n-1 {
			hi = n - 1
		}
		for i := lo; i <= hi; i++ {
			v := -hd * J.At(i, j)
			if i == j {
				v += 1
			}
			b.W.Set(i, j, v)
		}
	}

	if err := b.W.Factor(); err != nil {
		return ode.ErrSingular
	}
	return nil
}

func (b *bandedW) solve(rhs, x []float64) error {
	b.stats.LinSolves++
	return b.W.Solve(rhs, x)
}

// krylovW solves W*x = b iteratively. With an explicit Jacobian mode
// the product J*v goes through the compute backend; in
// finite-difference mode it is approximated matrix-free by a
// directional difference of the right-hand side.
type krylovW struct {
	prob    ode.Problem
	eval    *jacobian.Dense
	precond func(v []float64) []float64
	stats   *ode.Stats

	t, hd        float64
	y, f0        []float64
	yPert, fPert []float64
}

func (k *krylovW) prepare(t float64, y, f0 []float64, hd float64) error {
	k.t, k.hd = t, hd
	copy(k.y, y)
	copy(k.f0, f0)
	if k.eval != nil {
		if err := k.eval.Eval(t, y, f0); err != nil {
			return err
		}
		k.stats.JacEvals++
	}
	return nil
}

func (k *krylovW) solve(b, x []float64) error {
	n := len(b)
	op := func(v []float64) []float64 {
		jv := k.jacVec(v)
		out := make([]float64, n)
		for i := range out {
			out[i] = v[i] - k.hd*jv[i]
		}
		return out
	}

	res, _, err := linalg.GMRES(op, b, 1e-10, n, k.precond)
	k.stats.LinSolves++
	if err != nil {
		return fmt.Errorf("%w: %v", ode.ErrNoConvergence, err)
	}
	copy(x, res)
	return nil
}

func (k *krylovW) jacVec(v []float64) []float64 {
	if k.eval != nil {
		return compute.GetBackend().MatVecMul(k.eval.Matrix().RowViews(), v)
	}

	vNorm := 0.0
	yNorm := 0.0
	for i := range v {
		vNorm += v[i] * v[i]
		yNorm += k.y[i] * k.y[i]
	}
	vNorm = math.Sqrt(vNorm)
	if vNorm == 0 {
		return make([]float64, len(v))
	}

	delta := math.Sqrt(2.220446049250313e-16) * (1 + math.Sqrt(yNorm)) / vNorm
	for i := range v {
		k.yPert[i] = k.y[i] + delta*v[i]
	}
	k.prob.RHS(k.t, k.yPert, k.fPert)
	k.stats.Evals++

	jv := make([]float64, len(v))
	for i := range jv {
		jv[i] = (k.fPert[i] - k.f0[i]) / delta
	}
	return jv
}
