package solver

import (
	"context"
	"math"

	"github.com/odebench/odebench/internal/ode"
)

// Dormand-Prince 5(4) coefficients.
var (
	dpA2 = 1.0 / 5.0
	dpA3 = 3.0 / 10.0
	dpA4 = 4.0 / 5.0
	dpA5 = 8.0 / 9.0

	dpB21 = 1.0 / 5.0
	dpB31 = 3.0 / 40.0
	dpB32 = 9.0 / 40.0
	dpB41 = 44.0 / 45.0
	dpB42 = -56.0 / 15.0
	dpB43 = 32.0 / 9.0
	dpB51 = 19372.0 / 6561.0
	dpB52 = -25360.0 / 2187.0
	dpB53 = 64448.0 / 6561.0
	dpB54 = -212.0 / 729.0
	dpB61 = 9017.0 / 3168.0
	dpB62 = -355.0 / 33.0
	dpB63 = 46732.0 / 5247.0
	dpB64 = 49.0 / 176.0
	dpB65 = -5103.0 / 18656.0

	dpC1 = 35.0 / 384.0
	dpC3 = 500.0 / 1113.0
	dpC4 = 125.0 / 192.0
	dpC5 = -2187.0 / 6784.0
	dpC6 = 11.0 / 84.0

	dpE1 = dpC1 - 5179.0/57600.0
	dpE3 = dpC3 - 7571.0/16695.0
	dpE4 = dpC4 - 393.0/640.0
	dpE5 = dpC5 - -92097.0/339200.0
	dpE6 = dpC6 - 187.0/2100.0
	dpE7 = -1.0 / 40.0
)

const (
	dpSafety   = 0.9
	dpMinScale = 0.2
	dpMaxScale = 10.0
)

// dopri integrates with the adaptive Dormand-Prince embedded pair.
func dopri(ctx context.Context, prob ode.Problem, cfg ode.Config) (*ode.Solution, error) {
	n := prob.Dim()
	sol := &ode.Solution{}

	y := ode.State(prob.Y0).Clone()
	t := prob.T0
	record(sol, t, y)

	k1 := make([]float64, n)
	k2 := make([]float64, n)
	k3 := make([]float64, n)
	k4 := make([]float64, n)
	k5 := make([]float64, n)
	k6 := make([]float64, n)
	k7 := make([]float64, n)
	stage := make([]float64, n)
	yNew := make([]float64, n)
	errEst := make([]float64, n)

	prob.RHS(t, y, k1)
	sol.Stats.Evals++

	h := cfg.InitialStep
	if h <= 0 {
		h = initialStep(prob, y, k1, cfg.Atol, cfg.Rtol)
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

		for i := 0; i < n; i++ {
			stage[i] = y[i] + h*dpB21*k1[i]
		}
		prob.RHS(t+dpA2*h, stage, k2)

		for i := 0; i < n; i++ {
			stage[i] = y[i] + h*(dpB31*k1[i]+dpB32*k2[i])
		}
		prob.RHS(t+dpA3*h, stage, k3)

		for i := 0; i < n; i++ {
			stage[i] = y[i] + h*(dpB41*k1[i]+dpB42*k2[i]+dpB43*k3[i])
		}
		prob.RHS(t+dpA4*h, stage, k4)

		for i := 0; i < n; i++ {
			stage[i] = y[i] + h*(dpB51*k1[i]+dpB52*k2[i]+dpB53*k3[i]+dpB54*k4[i])
		}
		prob.RHS(t+dpA5*h, stage, k5)

		for i := 0; i < n; i++ {
			stage[i] = y[i] + h*(dpB61*k1[i]+dpB62*k2[i]+dpB63*k3[i]+dpB64*k4[i]+dpB65*k5[i])
		}
		prob.RHS(t+h, stage, k6)

		for i := 0; i < n; i++ {
			yNew[i] = y[i] + h*(dpC1*k1[i]+dpC3*k3[i]+dpC4*k4[i]+dpC5*k5[i]+dpC6*k6[i])
		}
		prob.RHS(t+h, yNew, k7)
		sol.Stats.Evals += 6

		for i := 0; i < n; i++ {
			errEst[i] = h * (dpE1*k1[i] + dpE3*k3[i] + dpE4*k4[i] + dpE5*k5[i] + dpE6*k6[i] + dpE7*k7[i])
		}
		norm := errorNorm(errEst, y, yNew, cfg.Atol, cfg.Rtol)

		if norm > 1 {
			sol.Stats.Rejected++
			h *= clamp(dpSafety*math.Pow(norm, -0.25), dpMinScale, dpMaxScale)
			continue
		}

		copy(y, yNew)
		// FSAL: the last stage is the first stage of the next step.
		copy(k1, k7)
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
			h *= clamp(dpSafety*math.Pow(norm, -0.2), dpMinScale, dpMaxScale)
		} else {
			h *= dpMaxScale
		}
	}

	return sol, nil
}
