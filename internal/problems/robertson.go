// Package problems defines the initial value problems the benchmark
// commands operate on, plus a name registry for the CLI.
package problems

import (
	"github.com/odebench/odebench/internal/dual"
	"github.com/odebench/odebench/internal/ode"
)

// Robertson is the classic stiff chemical kinetics problem: three
// species with rate constants spanning nine orders of magnitude.
// Defaults follow the literature: k1=0.04, k2=3e7, k3=1e4, y0=(1,0,0),
// integrated to t=1e5. Mass y1+y2+y3 is conserved.
func Robertson(k1, k2, k3 float64) ode.Problem {
	return ode.Problem{
		Name: "robertson",
		RHS: func(t float64, y, dy []float64) {
			dy[0] = -k1*y[0] + k3*y[1]*y[2]
			dy[2] = k2 * y[1] * y[1]
			dy[1] = -dy[0] - dy[2]
		},
		DualRHS: func(t float64, y, dy []dual.Number) {
			dy[0] = y[0].Scale(-k1).Add(y[1].Mul(y[2]).Scale(k3))
			dy[2] = y[1].Mul(y[1]).Scale(k2)
			dy[1] = dy[0].Add(dy[2]).Neg()
		},
		Jac: func(t float64, y []float64, dst [][]float64) {
			dst[0][0] = -k1
			dst[0][1] = k3 * y[2]
			dst[0][2] = k3 * y[1]
			dst[1][0] = k1
			dst[1][1] = -k3*y[2] - 2*k2*y[1]
			dst[1][2] = -k3 * y[1]
			dst[2][0] = 0
			dst[2][1] = 2 * k2 * y[1]
			dst[2][2] = 0
		},
		Y0:     []float64{1, 0, 0},
		T0:     0,
		T1:     1e5,
		Params: []float64{k1, k2, k3},
	}
}

// RobertsonScratch is the same kinetics written the way a performance-
// minded caller often writes it: the three reaction rates are staged in
// a fixed float64 buffer reused across calls. That buffer cannot hold
// dual numbers, so the problem has no DualRHS and an autodiff strategy
// against it fails; the finite-difference mode works on it unchanged.
func RobertsonScratch(k1, k2, k3 float64) ode.Problem {
	rates := make([]float64, 3)
	return ode.Problem{
		Name: "robertson_scratch",
		RHS: func(t float64, y, dy []float64) {
			rates[0] = k1 * y[0]
			rates[1] = k2 * y[1] * y[1]
			rates[2] = k3 * y[1] * y[2]
			dy[0] = -rates[0] + rates[2]
			dy[1] = rates[0] - rates[2] - rates[1]
			dy[2] = rates[1]
		},
		Y0:     []float64{1, 0, 0},
		T0:     0,
		T1:     1e5,
		Params: []float64{k1, k2, k3},
	}
}
