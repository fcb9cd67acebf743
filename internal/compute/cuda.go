//go:build cuda

package compute

/*
#cgo CFLAGS: -I/opt/cuda/include
#cgo LDFLAGS: -L/opt/cuda/lib64 -L${SRCDIR} -lcudart -lkernels -lstdc++
#include <stdlib.h>

extern int cuda_device_count();
extern const char* cuda_device_name_get();
extern void matvec_gpu(float* mat, float* vec, float* out, int rows, int cols);
*/
import "C"
import "unsafe"

type CUDABackend struct {
	available  bool
	deviceName string
}

func NewCUDABackend() *CUDABackend {
	count := int(C.cuda_device_count())
	name := ""
	if count > 0 {
		name = C.GoString(C.cuda_device_name_get())
	}
	return &CUDABackend{
		available:  count > 0,
		deviceName: name,
	}
}

func (c *CUDABackend) Name() string {
	if c.available {
		return "cuda (" + c.deviceName + ")"
	}
	return "cuda (not available)"
}

func (c *CUDABackend) Available() bool { return c.available }
func (c *CUDABackend) Cleanup()        {}

// RunBatch stays on the CPU: members are independent Go closures, only
// the inner linear algebra is offloaded.
func (c *CUDABackend) RunBatch(n int, fn func(idx int)) {
	cpu := NewCPUBackend()
	cpu.RunBatch(n, fn)
}

func (c *CUDABackend) MatVecMul(mat [][]float64, vec []float64) []float64 {
	if !c.available || len(mat) == 0 {
		cpu := NewCPUBackend()
		return cpu.MatVecMul(mat, vec)
	}

	rows := len(mat)
	cols := len(vec)

	matF := make([]float32, rows*cols)
	vecF := make([]float32, cols)
	outF := make([]float32, rows)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols && j < len(mat[i]); j++ {
			matF[i*cols+j] = float32(mat[i][j])
		}
	}
	for j := 0; j < cols; j++ {
		vecF[j] = float32(vec[j])
	}

	C.matvec_gpu(
		(*C.float)(unsafe.Pointer(&matF[0])),
		(*C.float)(unsafe.Pointer(&vecF[0])),
		(*C.float)(unsafe.Pointer(&outF[0])),
		C.int(rows),
		C.int(cols),
	)

	result := make([]float64, rows)
	for i := 0; i < rows; i++ {
		result[i] = float64(outF[i])
	}
	return result
}
