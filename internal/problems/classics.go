package problems

import (
	"github.com/odebench/odebench/internal/dual"
	"github.com/odebench/odebench/internal/ode"
)

// VanDerPol is the Van der Pol oscillator; large mu makes it stiff.
func VanDerPol(mu float64) ode.Problem {
	return ode.Problem{
		Name: "vanderpol",
		RHS: func(t float64, y, dy []float64) {
			dy[0] = y[1]
			dy[1] = mu*(1-y[0]*y[0])*y[1] - y[0]
		},
		DualRHS: func(t float64, y, dy []dual.Number) {
			dy[0] = y[1]
			one := dual.Const(1)
			dy[1] = one.Sub(y[0].Mul(y[0])).Mul(y[1]).Scale(mu).Sub(y[0])
		},
		Jac: func(t float64, y []float64, dst [][]float64) {
			dst[0][0] = 0
			dst[0][1] = 1
			dst[1][0] = -2*mu*y[0]*y[1] - 1
			dst[1][1] = mu * (1 - y[0]*y[0])
		},
		Y0:     []float64{2, 0},
		T0:     0,
		T1:     2 * mu,
		Params: []float64{mu},
	}
}

// Lorenz is the Lorenz attractor with the usual chaotic parameters.
func Lorenz(sigma, rho, beta float64) ode.Problem {
	return ode.Problem{
		Name: "lorenz",
		RHS: func(t float64, y, dy []float64) {
			dy[0] = sigma * (y[1] - y[0])
			dy[1] = y[0]*(rho-y[2]) - y[1]
			dy[2] = y[0]*y[1] - beta*y[2]
		},
		DualRHS: func(t float64, y, dy []dual.Number) {
			dy[0] = y[1].Sub(y[0]).Scale(sigma)
			dy[1] = y[0].Mul(y[2].Neg().Shift(rho)).Sub(y[1])
			dy[2] = y[0].Mul(y[1]).Sub(y[2].Scale(beta))
		},
		Y0:     []float64{1, 1, 1},
		T0:     0,
		T1:     20,
		Params: []float64{sigma, rho, beta},
	}
}

// Oscillator is the undamped harmonic oscillator; its closed-form
// solution (cos t, -sin t from y0=(1,0)) makes it the accuracy
// yardstick in tests.
func Oscillator() ode.Problem {
	return ode.Problem{
		Name: "oscillator",
		RHS: func(t float64, y, dy []float64) {
			dy[0] = y[1]
			dy[1] = -y[0]
		},
		DualRHS: func(t float64, y, dy []dual.Number) {
			dy[0] = y[1]
			dy[1] = y[0].Neg()
		},
		Jac: func(t float64, y []float64, dst [][]float64) {
			dst[0][0] = 0
			dst[0][1] = 1
			dst[1][0] = -1
			dst[1][1] = 0
		},
		Y0: []float64{1, 0},
		T0: 0,
		T1: 10,
	}
}
