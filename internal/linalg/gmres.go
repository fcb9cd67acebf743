package linalg

import (
	"errors"
	"math"
)

var ErrGMRESStalled = errors.New("linalg: gmres did not converge")

// Operator applies a matrix-vector product without forming the matrix.
type Operator func(v []float64) []float64

// GMRES solves A*x = b for the operator A, optionally with a right
// preconditioner M: the Krylov iteration runs on A*M(v) and the final
// correction is mapped back through M. precond may be nil.
//
// Returns the solution, the number of iterations used, and
// ErrGMRESStalled if the residual never reached tol within maxIter
// iterations.
func GMRES(op Operator, b []float64, tol float64, maxIter int, precond func(v []float64) []float64) ([]float64, int, error) {
	n := len(b)
	if maxIter <= 0 || maxIter > n {
		maxIter = n
	}

	x := make([]float64, n)
	beta := norm2(b)
	if beta == 0 {
		return x, 0, nil
	}

	// Arnoldi basis and Hessenberg factors updated with Givens rotations.
	v := make([][]float64, 1, maxIter+1)
	v[0] = make([]float64, n)
	for i := range b {
		v[0][i] = b[i] / beta
	}

	h := make([][]float64, 0, maxIter)
	cs := make([]float64, maxIter)
	sn := make([]float64, maxIter)
	g := make([]float64, maxIter+1)
	g[0] = beta

	iters := 0
	converged := false

	for k := 0; k < maxIter; k++ {
		iters = k + 1

		z := v[k]
		if precond != nil {
			z = precond(z)
		}
		w := op(z)

		col := make([]float64, k+2)
		for i := 0; i <= k; i++ {
			col[i] = dot(w, v[i])
			axpy(w, v[i], -col[i])
		}
		nw := norm2(w)
		col[k+1] = nw

		// Apply accumulated rotations to the new column.
		for i := 0; i < k; i++ {
			col[i], col[i+1] = cs[i]*col[i]+sn[i]*col[i+1], -sn[i]*col[i]+cs[i]*col[i+1]
		}
		cs[k], sn[k] = givens(col[k], col[k+1])
		col[k] = cs[k]*col[k] + sn[k]*col[k+1]
		col[k+1] = 0
		g[k+1] = -sn[k] * g[k]
		g[k] = cs[k] * g[k]

		h = append(h, col)

		if res := math.Abs(g[k+1]); res <= tol*beta {
			converged = true
			break
		}

		if nw == 0 {
			converged = true
			break
		}
		vk := make([]float64, n)
		for i := range w {
			vk[i] = w[i] / nw
		}
		v = append(v, vk)
	}

	// Back-substitute the triangular system H*y = g.
	y := make([]float64, iters)
	for i := iters - 1; i >= 0; i-- {
		sum := g[i]
		for j := i + 1; j < iters; j++ {
			sum -= h[j][i] * y[j]
		}
		y[i] = sum / h[i][i]
	}

	for j := 0; j < iters; j++ {
		axpy(x, v[j], y[j])
	}
	if precond != nil {
		x = precond(x)
	}

	if !converged {
		return x, iters, ErrGMRESStalled
	}
	return x, iters, nil
}

func givens(a, b float64) (c, s float64) {
	if b == 0 {
		return 1, 0
	}
	r := math.Hypot(a, b)
	return a / r, b / r
}

func norm2(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// axpy computes dst += alpha * v in place.
func axpy(dst, v []float64, alpha float64) {
	for i := range dst {
		dst[i] += alpha * v[i]
	}
}
