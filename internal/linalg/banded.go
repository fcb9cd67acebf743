package linalg

import "errors"

// Banded is an n x n matrix with ml sub-diagonals and mu
// super-diagonals, stored band-by-band: bands[i-j+mu][j] holds A[i][j].
// Factorization is done without pivoting, which is adequate for the
// near-identity iteration matrices W = I - h*d*J the stiff steppers
// build; it keeps fill inside the declared band.
type Banded struct {
	n, ml, mu int
	bands     [][]float64
	factored  bool
}

func NewBanded(n, ml, mu int) *Banded {
	width := ml + mu + 1
	data := make([]float64, width*n)
	bands := make([][]float64, width)
	rest := data
	for k := range bands {
		bands[k] = rest[:n]
		rest = rest[n:]
	}
	return &Banded{n: n, ml: ml, mu: mu, bands: bands}
}

func (b *Banded) Dim() int         { return b.n }
func (b *Banded) Bandwidth() (int, int) { return b.ml, b.mu }

// InBand reports whether (i, j) lies inside the stored band.
func (b *Banded) InBand(i, j int) bool {
	return j-i <= b.mu && i-j <= b.ml
}

func (b *Banded) At(i, j int) float64 {
	if !b.InBand(i, j) {
		return 0
	}
	return b.bands[i-j+b.mu][j]
}

func (b *Banded) Set(i, j int, v float64) {
	b.bands[i-j+b.mu][j] = v
}

func (b *Banded) Zero() {
	for _, band := range b.bands {
		for j := range band {
			band[j] = 0
		}
	}
	b.factored = false
}

// Factor computes an in-place LU decomposition without pivoting.
func (b *Banded) Factor() error {
	n := b.n
	for k := 0; k < n; k++ {
		pivot := b.At(k, k)
		if pivot == 0 {
			return ErrSingular
		}
		iMax := min(k+b.ml, n-1)
		jMax := min(k+b.mu, n-1)
		for i := k + 1; i <= iMax; i++ {
			l := b.At(i, k) / pivot
			b.Set(i, k, l)
			if l == 0 {
				continue
			}
			for j := k + 1; j <= jMax; j++ {
				b.Set(i, j, b.At(i, j)-l*b.At(k, j))
			}
		}
	}
	b.factored = true
	return nil
}

// Solve computes x such that A*x = b using the LU factors.
func (b *Banded) Solve(rhs, x []float64) error {
	if !b.factored {
		return errors.New("linalg: Solve called before Factor")
	}
	n := b.n
	if x == nil {
		x = rhs
	}
	copy(x, rhs)

	for k := 0; k < n; k++ {
		iMax := min(k+b.ml, n-1)
		for i := k + 1; i <= iMax; i++ {
			x[i] -= b.At(i, k) * x[k]
		}
	}
	for i := n - 1; i >= 0; i-- {
		jMax := min(i+b.mu, n-1)
		sum := x[i]
		for j := i + 1; j <= jMax; j++ {
			sum -= b.At(i, j) * x[j]
		}
		x[i] = sum / b.At(i, i)
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
