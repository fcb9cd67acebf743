package compute

// Backend is a hardware execution target for the batch-parallel parts
// of a run: ensemble members and the matrix-vector products inside the
// iterative linear solver.
type Backend interface {
	Name() string
	Available() bool

	// RunBatch executes fn for every index in [0, n). Implementations
	// may run indices concurrently, so fn must be safe to call from
	// multiple goroutines.
	RunBatch(n int, fn func(idx int))

	// MatVecMul computes mat * vec.
	MatVecMul(mat [][]float64, vec []float64) []float64

	Cleanup()
}

var activeBackend Backend

func init() {
	// Auto-select best available backend (CUDA if available, else CPU)
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

func AutoSelectBackend() Backend {
	cuda := NewCUDABackend()
	if cuda.Available() {
		return cuda
	}
	return NewCPUBackend()
}
