// Package jacobian builds df/dy matrices for a problem under a chosen
// differentiation mode: forward-mode autodiff, finite differences, an
// analytic callback, or grouped-column finite differences for banded
// structure. Mode compatibility is checked at construction, so a
// strategy that cannot work on a given problem fails before any
// stepping starts.
package jacobian

import (
	"math"

	"github.com/odebench/odebench/internal/dual"
	"github.com/odebench/odebench/internal/linalg"
	"github.com/odebench/odebench/internal/ode"
)

// fdEps is the finite-difference perturbation scale, sqrt of machine
// epsilon.
var fdEps = math.Sqrt(2.220446049250313e-16)

// Dense evaluates a full Jacobian into an internal dense matrix.
type Dense struct {
	mode string
	prob ode.Problem
	J    *linalg.Dense

	yd, dyd []dual.Number
	yPert   []float64
	fPert   []float64
}

// NewDense prepares a dense Jacobian evaluator. Requesting
// ode.JacAutodiff for a problem without a dual right-hand side returns
// ode.ErrDualIncompatible; requesting ode.JacAnalytic without an
// analytic Jacobian returns ode.ErrNoAnalyticJacobian.
func NewDense(prob ode.Problem, mode string) (*Dense, error) {
	n := prob.Dim()
	d := &Dense{mode: mode, prob: prob, J: linalg.NewDense(n, n)}

	switch mode {
	case ode.JacAutodiff:
		if prob.DualRHS == nil {
			return nil, ode.ErrDualIncompatible
		}
		d.yd = make([]dual.Number, n)
		d.dyd = make([]dual.Number, n)
	case ode.JacFiniteDiff:
		d.yPert = make([]float64, n)
		d.fPert = make([]float64, n)
	case ode.JacAnalytic:
		if prob.Jac == nil {
			return nil, ode.ErrNoAnalyticJacobian
		}
	default:
		return nil, ode.ErrUnknownJacobian
	}
	return d, nil
}

// Matrix returns the matrix filled by the last Eval.
func (d *Dense) Matrix() *linalg.Dense { return d.J }

// Eval fills the Jacobian at (t, y). f0 is the already-computed value
// of the right-hand side at (t, y); only the finite-difference mode
// uses it.
func (d *Dense) Eval(t float64, y, f0 []float64) error {
	n := len(y)
	d.J.Zero()

	switch d.mode {
	case ode.JacAutodiff:
		for j := 0; j < n; j++ {
			dual.Lift(y, j, d.yd)
			d.prob.DualRHS(t, d.yd, d.dyd)
			for i := 0; i < n; i++ {
				d.J.Set(i, j, d.dyd[i].Du)
			}
		}
	case ode.JacFiniteDiff:
		copy(d.yPert, y)
		for j := 0; j < n; j++ {
			delta := fdEps * math.Max(math.Abs(y[j]), 1)
			d.yPert[j] = y[j] + delta
			d.prob.RHS(t, d.yPert, d.fPert)
			d.yPert[j] = y[j]
			for i := 0; i < n; i++ {
				d.J.Set(i, j, (d.fPert[i]-f0[i])/delta)
			}
		}
	case ode.JacAnalytic:
		d.prob.Jac(t, y, d.J.RowViews())
	}
	return nil
}

// Banded evaluates a banded Jacobian by finite differences with
// grouped columns: columns whose index is congruent modulo the band
// width cannot overlap, so one RHS evaluation perturbs a whole group.
type Banded struct {
	prob ode.Problem
	J    *linalg.Banded

	yPert []float64
	fPert []float64
}

// NewBanded prepares a banded evaluator; the problem must declare its
// bandwidth.
func NewBanded(prob ode.Problem) (*Banded, error) {
	if !prob.Banded {
		return nil, ode.ErrNotBanded
	}
	n := prob.Dim()
	return &Banded{
		prob:  prob,
		J:     linalg.NewBanded(n, prob.ML, prob.MU),
		yPert: make([]float64, n),
		fPert: make([]float64, n),
	}, nil
}

func (b *Banded) Matrix() *linalg.Banded { return b.J }

func (b *Banded) Eval(t float64, y, f0 []float64) error {
	n := len(y)
	width := b.prob.ML + b.prob.MU + 1
	b.J.Zero()

	copy(b.yPert, y)
	deltas := make([]float64, n)

	for group := 0; group < width && group < n; group++ {
		for j := group; j < n; j += width {
			deltas[j] = fdEps * math.Max(math.Abs(y[j]), 1)
			b.yPert[j] = y[j] + deltas[j]
		}

		b.prob.RHS(t, b.yPert, b.fPert)

		for j := group; j < n; j += width {
			b.yPert[j] = y[j]
			lo := j - b.prob.MU
			if lo < 0 {
				lo = 0
			}
			hi := j + b.prob.ML
			if hi > n-1 {
				hi = n - 1
			}
			for i := lo; i <= hi; i++ {
				b.J.Set(i, j, (b.fPert[i]-f0[i])/deltas[j])
			}
		}
	}
	return nil
}
