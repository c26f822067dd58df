// Package cpu provides the host-memory allocator and reference elementwise
// kernels for the Strata library.
//
// The kernels are deliberately small: their job is to exercise the
// compatibility, broadcasting and hazard-instrumentation contract that every
// operation implementation must follow (DebugNormalOp before touching memory,
// CompressTensors to shrink the loop nest), not to be a complete math
// library.
package cpu

import (
	"github.com/strata-ml/strata/internal/parallel"
	"github.com/strata-ml/strata/internal/tensor"
)

// region is a plain host-memory span.
type region struct {
	data []byte
}

func (r *region) Bytes() ([]byte, error) { return r.data, nil }
func (r *region) Release()               { r.data = nil }

// Allocator realizes storage regions in host memory.
type Allocator struct{}

// Allocate creates a host region of the given size. Host memory from make is
// always zero-filled, so the zero request is satisfied unconditionally.
func (Allocator) Allocate(size int, _ bool) (tensor.Region, error) {
	return &region{data: make([]byte, size)}, nil
}

// Device returns the device this allocator serves.
func (Allocator) Device() tensor.Device { return tensor.CPU }

// Backend executes elementwise kernels over host-resident tensors.
type Backend struct {
	cfg parallel.Config
}

// New creates a CPU backend with default parallelism.
func New() *Backend {
	return &Backend{cfg: parallel.DefaultConfig()}
}

// Allocator returns the host allocator.
func (b *Backend) Allocator() tensor.Allocator { return Allocator{} }
