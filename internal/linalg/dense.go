// Package linalg provides the small dense, banded and iterative linear
// solvers the stiff integrators need. Matrices are stored in a single
// backing array with row views, sized once and reused across steps.
package linalg

import "errors"

var ErrSingular = errors.New("linalg: matrix is singular")

// Dense is a row-major dense matrix.
type Dense struct {
	rows, cols int
	data       []float64
	r          [][]float64
	piv        []int
	factored   bool
}

func NewDense(rows, cols int) *Dense {
	data := make([]float64, rows*cols)
	r := make([][]float64, rows)
	rest := data
	for i := range r {
		r[i] = rest[:cols]
		rest = rest[cols:]
	}
	return &Dense{rows: rows, cols: cols, data: data, r: r, piv: make([]int, rows)}
}

func (d *Dense) Rows() int { return d.rows }
func (d *Dense) Cols() int { return d.cols }

func (d *Dense) At(i, j int) float64     { return d.r[i][j] }
func (d *Dense) Set(i, j int, v float64) { d.r[i][j] = v }

// Row returns a mutable view of row i.
func (d *Dense) Row(i int) []float64 { return d.r[i] }

// RowViews exposes the matrix as row slices sharing the backing array.
func (d *Dense) RowViews() [][]float64 { return d.r }

func (d *Dense) Zero() {
	for i := range d.data {
		d.data[i] = 0
	}
	d.factored = false
}

// MatVec computes dst = A*v serially.
func (d *Dense) MatVec(v, dst []float64) {
	for i := 0; i < d.rows; i++ {
		row := d.r[i]
		sum := 0.0
		for j := 0; j < d.cols; j++ {
			sum += row[j] * v[j]
		}
		dst[i] = sum
	}
}

// Factor computes an in-place LU decomposition with partial pivoting.
// The matrix contents are destroyed; Solve uses the factors.
func (d *Dense) Factor() error {
	n := d.rows
	for k := 0; k < n; k++ {
		p := k
		max := abs(d.r[k][k])
		for i := k + 1; i < n; i++ {
			if a := abs(d.r[i][k]); a > max {
				max = a
				p = i
			}
		}
		if max == 0 {
			return ErrSingular
		}
		d.piv[k] = p
		if p != k {
			d.r[p], d.r[k] = d.r[k], d.r[p]
		}

		pivot := d.r[k][k]
		for i := k + 1; i < n; i++ {
			l := d.r[i][k] / pivot
			d.r[i][k] = l
			if l == 0 {
				continue
			}
			rowK := d.r[k]
			rowI := d.r[i]
			for j := k + 1; j < n; j++ {
				rowI[j] -= l * rowK[j]
			}
		}
	}
	d.factored = true
	return nil
}

// Solve computes x such that A*x = b using the LU factors. b is not
// modified; x may alias b.
func (d *Dense) Solve(b, x []float64) error {
	if !d.factored {
		return errors.New("linalg: Solve called before Factor")
	}
	n := d.rows
	if x == nil {
		x = b
	}
	copy(x, b)

	for k := 0; k < n; k++ {
		if p := d.piv[k]; p != k {
			x[k], x[p] = x[p], x[k]
		}
		for i := k + 1; i < n; i++ {
			x[i] -= d.r[i][k] * x[k]
		}
	}
	for i := n - 1; i >= 0; i-- {
		sum := x[i]
		row := d.r[i]
		for j := i + 1; j < n; j++ {
			sum -= row[j] * x[j]
		}
		x[i] = sum / row[i]
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
