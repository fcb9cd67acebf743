package solver

import "github.com/odebench/odebench/internal/ode"

// eulerStep returns an in-place forward Euler step. Scratch is
// allocated once and reused across steps.
func eulerStep(prob ode.Problem, stats *ode.Stats) stepFn {
	n := prob.Dim()
	dy := make([]float64, n)

	return func(t, dt float64, y []float64) {
		stats.Evals++
		prob.RHS(t, y, dy)
		for i := range y {
			y[i] += dt * dy[i]
		}
	}
}

// rk4Step returns an in-place classical Runge-Kutta step with
// preallocated stage buffers.
func rk4Step(prob ode.Problem, stats *ode.Stats) stepFn {
	n := prob.Dim()
	k1 := make([]float64, n)
	k2 := make([]float64, n)
	k3 := make([]float64, n)
	k4 := make([]float64, n)
	scratch := make([]float64, n)

	return func(t, dt float64, y []float64) {
		stats.Evals += 4
		prob.RHS(t, y, k1)

		for i := 0; i < n; i++ {
			scratch[i] = y[i] + dt*0.5*k1[i]
		}
		prob.RHS(t+dt*0.5, scratch, k2)

		for i := 0; i < n; i++ {
			scratch[i] = y[i] + dt*0.5*k2[i]
		}
		prob.RHS(t+dt*0.5, scratch, k3)

		for i := 0; i < n; i++ {
			scratch[i] = y[i] + dt*k3[i]
		}
		prob.RHS(t+dt, scratch, k4)

		dt6 := dt / 6.0
		for i := 0; i < n; i++ {
			y[i] += dt6 * (k1[i] + 2*k2[i] + 2*k3[i] + k4[i])
		}
	}
}
