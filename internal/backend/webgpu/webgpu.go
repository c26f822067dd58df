//go:build windows

// Package webgpu provides a WebGPU allocator for Strata storage regions.
//
// Storage on the WebGPU device realizes its region as a wgpu.Buffer; the
// host-visible bytes are produced on demand through a staging-buffer
// readback, and mutations are flushed back with a queue write. The hazard
// tracking and pattern layers are device-agnostic; this package only supplies
// the region lifecycle.
package webgpu

import (
	"fmt"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
	"k8s.io/klog/v2"

	"github.com/strata-ml/strata/internal/tensor"
)

// Allocator realizes storage regions in GPU memory via WebGPU.
type Allocator struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
}

// New creates a WebGPU allocator. Returns an error if WebGPU is not available
// or initialization fails.
func New() (a *Allocator, err error) {
	// Recover from panic if the wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			a = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", adapterErr)
	}

	device, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", deviceErr)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	return &Allocator{instance: instance, adapter: adapter, device: device, queue: queue}, nil
}

// Device returns the device this allocator serves.
func (a *Allocator) Device() tensor.Device { return tensor.WebGPU }

// Allocate creates a GPU buffer region of the given size. WebGPU buffer
// copies require 4-byte alignment, so the buffer may be slightly larger than
// requested; the region exposes exactly size bytes.
func (a *Allocator) Allocate(size int, zero bool) (tensor.Region, error) {
	alignedSize := (uint64(size) + 3) &^ 3
	if alignedSize < 4 {
		alignedSize = 4
	}

	buffer := a.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:             alignedSize,
		MappedAtCreation: wgpu.True,
	})
	if buffer == nil {
		return nil, fmt.Errorf("webgpu: failed to create %d-byte buffer", alignedSize)
	}

	// Mapped-at-creation memory is zero-filled; nothing extra to do for zero.
	_ = zero
	buffer.Unmap()

	return &gpuRegion{alloc: a, buffer: buffer, size: size, alignedSize: alignedSize}, nil
}

// Release frees the WebGPU device objects. Regions allocated from this
// allocator must be released first.
func (a *Allocator) Release() {
	if a.queue != nil {
		a.queue.Release()
		a.queue = nil
	}
	if a.device != nil {
		a.device.Release()
		a.device = nil
	}
	if a.adapter != nil {
		a.adapter.Release()
		a.adapter = nil
	}
	if a.instance != nil {
		a.instance.Release()
		a.instance = nil
	}
}

// gpuRegion is a storage region backed by a wgpu.Buffer. The first Bytes call
// reads the buffer back into a host mirror; subsequent calls return the
// mirror.
type gpuRegion struct {
	alloc       *Allocator
	buffer      *wgpu.Buffer
	size        int
	alignedSize uint64
	host        []byte
}

// Bytes returns host-visible bytes for the region, transferring from the GPU
// on first use.
func (r *gpuRegion) Bytes() ([]byte, error) {
	if r.host != nil {
		return r.host, nil
	}
	data, err := r.readBuffer()
	if err != nil {
		return nil, err
	}
	r.host = data[:r.size]
	return r.host, nil
}

// Flush writes the host mirror back to the GPU buffer. Callers that mutated
// the bytes returned by Bytes use this before dispatching GPU work.
func (r *gpuRegion) Flush() error {
	if r.host == nil || r.buffer == nil {
		return nil
	}
	padded := make([]byte, r.alignedSize)
	copy(padded, r.host)
	r.alloc.queue.WriteBuffer(r.buffer, 0, padded)
	return nil
}

// Release frees the GPU buffer.
func (r *gpuRegion) Release() {
	if r.buffer != nil {
		r.buffer.Release()
		r.buffer = nil
	}
	r.host = nil
}

// readBuffer copies the GPU buffer into host memory through a staging buffer,
// since storage buffers cannot be mapped directly.
func (r *gpuRegion) readBuffer() ([]byte, error) {
	staging := r.alloc.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  r.alignedSize,
	})
	if staging == nil {
		return nil, fmt.Errorf("webgpu: failed to create staging buffer")
	}
	defer staging.Release()

	encoder := r.alloc.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(r.buffer, 0, staging, 0, r.alignedSize)
	cmdBuffer := encoder.Finish(nil)
	r.alloc.queue.Submit(cmdBuffer)

	if err := staging.MapAsync(r.alloc.device, wgpu.MapModeRead, 0, r.alignedSize); err != nil {
		return nil, fmt.Errorf("webgpu: failed to map staging buffer: %w", err)
	}
	mappedPtr := staging.GetMappedRange(0, r.alignedSize)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), r.alignedSize)
	result := make([]byte, r.alignedSize)
	copy(result, mappedSlice)
	staging.Unmap()

	klog.V(2).Infof("webgpu: read back %d bytes", r.alignedSize)
	return result, nil
}
