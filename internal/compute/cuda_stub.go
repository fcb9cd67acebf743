//go:build !cuda

package compute

type CUDABackend struct{}

func NewCUDABackend() *CUDABackend {
	return &CUDABackend{}
}

func (c *CUDABackend) Name() string    { return "cuda (not available)" }
func (c *CUDABackend) Available() bool { return false }
func (c *CUDABackend) Cleanup()        {}

func (c *CUDABackend) RunBatch(n int, fn func(idx int)) {
	cpu := NewCPUBackend()
	cpu.RunBatch(n, fn)
}

func (c *CUDABackend) MatVecMul(mat [][]float64, vec []float64) []float64 {
	cpu := NewCPUBackend()
	return cpu.MatVecMul(mat, vec)
}
