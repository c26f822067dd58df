//go:build windows

package webgpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-ml/strata/internal/tensor"
)

func newTestAllocator(t *testing.T) *Allocator {
	t.Helper()
	alloc, err := New()
	if err != nil {
		t.Skipf("WebGPU not available: %v", err)
	}
	t.Cleanup(alloc.Release)
	return alloc
}

func TestAllocatorDevice(t *testing.T) {
	alloc := newTestAllocator(t)
	assert.Equal(t, tensor.WebGPU, alloc.Device())
}

func TestAllocateAndReadback(t *testing.T) {
	alloc := newTestAllocator(t)

	region, err := alloc.Allocate(10, true)
	require.NoError(t, err)
	defer region.Release()

	// The region exposes exactly the requested size, despite the 4-byte
	// buffer alignment, and mapped-at-creation memory starts zeroed.
	data, err := region.Bytes()
	require.NoError(t, err)
	require.Len(t, data, 10)
	for _, by := range data {
		assert.Zero(t, by)
	}
}

func TestFlushRoundTrip(t *testing.T) {
	alloc := newTestAllocator(t)

	region, err := alloc.Allocate(8, false)
	require.NoError(t, err)
	defer region.Release()

	data, err := region.Bytes()
	require.NoError(t, err)
	copy(data, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, region.(*gpuRegion).Flush())

	// Drop the host mirror and read back from the GPU.
	region.(*gpuRegion).host = nil
	data, err = region.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, data)
}

func TestStorageOnGPU(t *testing.T) {
	alloc := newTestAllocator(t)

	ten, err := tensor.New([]int{4}, tensor.Float32, alloc)
	require.NoError(t, err)
	assert.Equal(t, tensor.WebGPU, ten.Device())
	assert.False(t, ten.Storage().Realized())

	data, err := ten.Data()
	require.NoError(t, err)
	assert.Len(t, data, 16)
	assert.True(t, ten.Storage().Realized())
	ten.Release()
}
