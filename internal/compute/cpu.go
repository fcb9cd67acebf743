package compute

import (
	"runtime"
	"sync"
)

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) RunBatch(n int, fn func(idx int)) {
	if n <= 0 {
		return
	}
	if n < 2 || c.workers < 2 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (n + c.workers - 1) / c.workers

	for w := 0; w < c.workers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(start, end)
	}

	wg.Wait()
}

func (c *CPUBackend) MatVecMul(mat [][]float64, vec []float64) []float64 {
	rows := len(mat)
	result := make([]float64, rows)

	if rows < 16 {
		for i := 0; i < rows; i++ {
			sum := 0.0
			for j := 0; j < len(vec); j++ {
				if j < len(mat[i]) {
					sum += mat[i][j] * vec[j]
				}
			}
			result[i] = sum
		}
		return result
	}

	var wg sync.WaitGroup
	chunkSize := (rows + c.workers - 1) / c.workers

	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			start := worker * chunkSize
			end := start + chunkSize
			if end > rows {
				end = rows
			}

			for i := start; i < end; i++ {
				sum := 0.0
				for j := 0; j < len(vec); j++ {
					if j < len(mat[i]) {
						sum += mat[i][j] * vec[j]
					}
				}
				result[i] = sum
			}
		}(w)
	}

	wg.Wait()
	return result
}
