package problems

import (
	"github.com/odebench/odebench/internal/dual"
	"github.com/odebench/odebench/internal/ode"
)

// Bruss2D is the two-dimensional Brusselator reaction-diffusion system
// discretized on an n x n grid with a five-point Laplacian and
// reflecting boundaries. The state interleaves the two species per
// cell: y[2i] = u_i, y[2i+1] = v_i. Coupling reaches one grid row in
// each direction, so the Jacobian is banded with half-width 2n.
//
// Standard literature parameters: A = 3.4, B = 1.0, alpha = 0.002,
// u(0,x,y) = 2 + 0.25y, v(0,x,y) = 1 + 0.8x.
func Bruss2D(n int) ode.Problem {
	a, b, alpha := 3.4, 1.0, 0.002
	n1 := float64(n) - 1
	c := alpha * n1 * n1
	a1 := a + 1

	cells := n * n
	y0 := make([]float64, 2*cells)
	for i := 0; i < cells; i++ {
		x := float64(i%n) / n1
		yy := float64(i/n) / n1
		y0[2*i] = 2 + 0.25*yy
		y0[2*i+1] = 1 + 0.8*x
	}

	neighbors := func(i int) (top, bottom, left, right int) {
		top, bottom = i-n, i+n
		if top < 0 {
			top = bottom
		} else if bottom >= cells {
			bottom = top
		}
		left, right = i-1, i+1
		if col := i % n; col == 0 {
			left = right
		} else if col == n-1 {
			right = left
		}
		return
	}

	rhs := func(t float64, y, dy []float64) {
		for i := 0; i < cells; i++ {
			top, bottom, left, right := neighbors(i)

			u, v := y[2*i], y[2*i+1]
			lapU := y[2*top] + y[2*bottom] + y[2*left] + y[2*right] - 4*u
			lapV := y[2*top+1] + y[2*bottom+1] + y[2*left+1] + y[2*right+1] - 4*v

			dy[2*i] = b + u*u*v - a1*u + c*lapU
			dy[2*i+1] = a*u - u*u*v + c*lapV
		}
	}

	dualRHS := func(t float64, y, dy []dual.Number) {
		for i := 0; i < cells; i++ {
			top, bottom, left, right := neighbors(i)

			u, v := y[2*i], y[2*i+1]
			uuv := u.Mul(u).Mul(v)
			lapU := y[2*top].Add(y[2*bottom]).Add(y[2*left]).Add(y[2*right]).Sub(u.Scale(4))
			lapV := y[2*top+1].Add(y[2*bottom+1]).Add(y[2*left+1]).Add(y[2*right+1]).Sub(v.Scale(4))

			dy[2*i] = uuv.Sub(u.Scale(a1)).Add(lapU.Scale(c)).Shift(b)
			dy[2*i+1] = u.Scale(a).Sub(uuv).Add(lapV.Scale(c))
		}
	}

	return ode.Problem{
		Name:    "bruss2d",
		RHS:     rhs,
		DualRHS: dualRHS,
		Y0:      y0,
		T0:      0,
		T1:      1,
		Params:  []float64{a, b, alpha, float64(n)},
		Banded:  true,
		ML:      2 * n,
		MU:      2 * n,
	}
}
