// Package compute provides hardware-accelerated computation backends.
//
// The package automatically selects the best available backend:
//
//   - CUDA: GPU-accelerated matrix-vector products
//   - CPU: worker-chunked fallback for systems without GPU
//
// # Usage
//
// Batch work (ensemble members, parameter sweeps) goes through
// RunBatch; the Krylov linear solver routes its J*v products through
// MatVecMul:
//
//	backend := compute.GetBackend()
//	backend.RunBatch(n, func(i int) { runs[i] = solveMember(i) })
//
// Build with CUDA support:
//
//	go build -tags cuda ./...
package compute
