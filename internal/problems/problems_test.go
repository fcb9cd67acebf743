package problems

import (
	"math"
	"testing"

	"github.com/odebench/odebench/internal/dual"
	"github.com/odebench/odebench/internal/ode"
)

// dualMatchesRHS checks that the dual right-hand side reduces to the
// plain one when no derivative is seeded.
func dualMatchesRHS(t *testing.T, prob ode.Problem, y []float64) {
	t.Helper()
	if prob.DualRHS == nil {
		t.Fatalf("%s has no dual right-hand side", prob.Name)
	}

	n := len(y)
	dy := make([]float64, n)
	prob.RHS(0, y, dy)

	yd := make([]dual.Number, n)
	dyd := make([]dual.Number, n)
	for i, v := range y {
		yd[i] = dual.Const(v)
	}
	prob.DualRHS(0, yd, dyd)

	for i := 0; i < n; i++ {
		if math.Abs(dyd[i].Re-dy[i]) > 1e-12*math.Max(1, math.Abs(dy[i])) {
			t.Errorf("%s: component %d: dual %g vs plain %g", prob.Name, i, dyd[i].Re, dy[i])
		}
	}
}

func TestRobertsonRates(t *testing.T) {
	prob := Robertson(0.04, 3e7, 1e4)

	dy := make([]float64, 3)
	prob.RHS(0, []float64{1, 0, 0}, dy)

	// From the pure-y1 state only the slow decay acts.
	if dy[0] != -0.04 || dy[1] != 0.04 || dy[2] != 0 {
		t.Errorf("unexpected initial rates: %v", dy)
	}

	// Rates always sum to zero: mass conservation.
	prob.RHS(0, []float64{0.5, 1e-5, 0.5}, dy)
	if s := dy[0] + dy[1] + dy[2]; math.Abs(s) > 1e-12 {
		t.Errorf("rates do not conserve mass: %g", s)
	}

	dualMatchesRHS(t, prob, []float64{0.7, 1e-5, 0.3})
}

func TestRobertsonScratchSharesRatesButNotDuals(t *testing.T) {
	plain := Robertson(0.04, 3e7, 1e4)
	scratch := RobertsonScratch(0.04, 3e7, 1e4)

	if scratch.DualRHS != nil {
		t.Fatal("the scratch-buffer variant must not offer a dual right-hand side")
	}

	y := []float64{0.7, 1e-5, 0.3}
	a := make([]float64, 3)
	b := make([]float64, 3)
	plain.RHS(0, y, a)
	scratch.RHS(0, y, b)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("component %d: %g vs %g", i, a[i], b[i])
		}
	}
}

func TestVanDerPolDualAndJacobian(t *testing.T) {
	prob := VanDerPol(10)
	dualMatchesRHS(t, prob, []float64{1.5, -0.5})

	// Analytic Jacobian against central differences.
	y := []float64{1.5, -0.5}
	J := [][]float64{make([]float64, 2), make([]float64, 2)}
	prob.Jac(0, y, J)

	h := 1e-6
	for j := 0; j < 2; j++ {
		yp := append([]float64(nil), y...)
		ym := append([]float64(nil), y...)
		yp[j] += h
		ym[j] -= h
		fp := make([]float64, 2)
		fm := make([]float64, 2)
		prob.RHS(0, yp, fp)
		prob.RHS(0, ym, fm)
		for i := 0; i < 2; i++ {
			fd := (fp[i] - fm[i]) / (2 * h)
			if math.Abs(J[i][j]-fd) > 1e-4*math.Max(1, math.Abs(fd)) {
				t.Errorf("Jac(%d,%d): analytic %g vs fd %g", i, j, J[i][j], fd)
			}
		}
	}
}

func TestLorenzDual(t *testing.T) {
	dualMatchesRHS(t, Lorenz(10, 28, 8.0/3.0), []float64{1, 2, 3})
}

func TestBruss2DStructure(t *testing.T) {
	n := 6
	prob := Bruss2D(n)

	if prob.Dim() != 2*n*n {
		t.Fatalf("expected dim %d, got %d", 2*n*n, prob.Dim())
	}
	if !prob.Banded || prob.ML != 2*n || prob.MU != 2*n {
		t.Errorf("expected bandwidth %d, got ml=%d mu=%d banded=%v", 2*n, prob.ML, prob.MU, prob.Banded)
	}

	// The homogeneous steady state u=B, v=A/B has zero diffusion and
	// zero reaction.
	y := make([]float64, prob.Dim())
	for i := 0; i < n*n; i++ {
		y[2*i] = 1.0
		y[2*i+1] = 3.4
	}
	dy := make([]float64, prob.Dim())
	prob.RHS(0, y, dy)
	for i, v := range dy {
		if math.Abs(v) > 1e-10 {
			t.Fatalf("steady state not steady at %d: %g", i, v)
		}
	}

	dualMatchesRHS(t, prob, prob.Y0)
}

func TestRegistryRejectsDegenerateGrid(t *testing.T) {
	// A one-cell grid has no interior and a zero grid spacing; the
	// constructor must never see it.
	for _, size := range []float64{1, 0, -4, 2.7} {
		if _, err := New("bruss2d", []float64{size}); err == nil {
			t.Errorf("expected error for grid size %g", size)
		}
	}

	if _, err := New("bruss2d", []float64{2}); err != nil {
		t.Errorf("smallest valid grid rejected: %v", err)
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range List() {
		prob, err := New(name, nil)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if prob.RHS == nil || prob.Dim() == 0 || prob.T1 <= prob.T0 {
			t.Errorf("%s: malformed problem", name)
		}

		// RHS must tolerate its default initial state.
		dy := make([]float64, prob.Dim())
		prob.RHS(prob.T0, prob.Y0, dy)
		for i, v := range dy {
			if math.IsNaN(v) {
				t.Errorf("%s: NaN rate at component %d", name, i)
			}
		}
	}

	if _, err := New("heat1d", nil); err == nil {
		t.Error("expected error for unknown problem")
	}
}

func TestRegistryAppliesParams(t *testing.T) {
	prob, err := New("vanderpol", []float64{50})
	if err != nil {
		t.Fatal(err)
	}
	if prob.Params[0] != 50 {
		t.Errorf("expected mu=50, got %v", prob.Params)
	}
	if prob.T1 != 100 {
		t.Errorf("expected span scaled with mu, got T1=%g", prob.T1)
	}
}
