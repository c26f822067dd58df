// Copyright 2025 Strata Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/strata-ml/strata/internal/pattern"
	"github.com/strata-ml/strata/internal/tensor"
)

// Type aliases for the public API.

// DataType represents the element type of a tensor.
type DataType = tensor.DataType

// Element type constants.
const (
	Float16 DataType = tensor.Float16
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
)

// Device represents the execution device a tensor's storage lives on.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	CUDA   Device = tensor.CUDA
	Vulkan Device = tensor.Vulkan
	Metal  Device = tensor.Metal
	WebGPU Device = tensor.WebGPU
)

// Pattern is the immutable shape/stride descriptor for a tensor view.
type Pattern = pattern.Pattern

// Storage is an owned, reference-counted memory region with an element type,
// a device and a hazard tracker.
type Storage = tensor.Storage

// TensorImpl is the shared unit combining a Pattern, a Storage reference and
// dtype/device metadata.
type TensorImpl = tensor.TensorImpl

// Tensor is a lightweight handle sharing ownership of one TensorImpl.
type Tensor = tensor.Tensor

// Allocator realizes storage regions for a device; see backend/cpu and
// backend/webgpu.
type Allocator = tensor.Allocator

// Region is an allocated span of storage bytes.
type Region = tensor.Region

// UseKind declares how an operation accesses a tensor argument's memory.
type UseKind = tensor.UseKind

// Access kinds for RecordUse and DebugNormalOp.
const (
	Read           UseKind = tensor.Read
	Write          UseKind = tensor.Write
	ReadWrite      UseKind = tensor.ReadWrite
	ReadInvalidate UseKind = tensor.ReadInvalidate
	Invalidate     UseKind = tensor.Invalidate
)

// New creates a fresh tensor of the given dims and element type. The backing
// storage is allocated lazily on first real access; a nil allocator means
// host memory.
func New(dims []int, dtype DataType, alloc Allocator) (Tensor, error) {
	return tensor.New(dims, dtype, alloc)
}

// WithPattern returns a tensor referencing a new TensorImpl: identical to t
// except for the given pattern, sharing t's storage.
func WithPattern(t Tensor, p Pattern) Tensor {
	return tensor.WithPattern(t, p)
}

// Compatible reports whether a and b share the same element type and device.
func Compatible(a, b Tensor) bool { return tensor.Compatible(a, b) }

// Compatible3 is the three-tensor form of Compatible.
func Compatible3(a, b, c Tensor) bool { return tensor.Compatible3(a, b, c) }

// Broadcastable reports whether a and b broadcast together; with bNonReducing
// set, b (typically the output) may not have a dim of 1 where a's is larger.
func Broadcastable(a, b Tensor, bNonReducing bool) bool {
	return tensor.Broadcastable(a, b, bNonReducing)
}

// Broadcastable3 is the three-tensor form of Broadcastable, with c optionally
// non-reducing.
func Broadcastable3(a, b, c Tensor, cNonReducing bool) bool {
	return tensor.Broadcastable3(a, b, c, cNonReducing)
}

// SameDim reports whether a and b have identical dims after left-padding
// with 1s.
func SameDim(a, b Tensor) bool { return tensor.SameDim(a, b) }

// SameDim3 is the three-tensor form of SameDim.
func SameDim3(a, b, c Tensor) bool { return tensor.SameDim3(a, b, c) }

// Overlap reports whether a and b reference the same storage and their
// addressed byte sets geometrically intersect.
func Overlap(a, b Tensor) bool { return tensor.Overlap(a, b) }

// IsWhole reports whether t addresses exactly the full byte extent of its
// storage.
func IsWhole(t Tensor) bool { return tensor.IsWhole(t) }

// NumElements returns the number of elements in the tensor.
func NumElements(t Tensor) int { return tensor.NumElements(t) }

// Canonicalize ensures t's pattern is canonical, returning a new handle
// (sharing storage) if the pattern changed.
func Canonicalize(t Tensor) Tensor { return tensor.Canonicalize(t) }

// CompressTensors jointly reduces the tensors' patterns to the minimal axis
// count preserving their broadcast structure and addressed byte sets.
func CompressTensors(ts []Tensor) []Tensor { return tensor.CompressTensors(ts) }

// ZeroOnAllocation ensures t's storage will be zero-filled when realized.
func ZeroOnAllocation(t Tensor) { tensor.ZeroOnAllocation(t) }

// SetDebugMode enables or disables debug instrumentation globally.
func SetDebugMode(on bool) { tensor.SetDebugMode(on) }

// DebugMode reports whether debug instrumentation is enabled.
func DebugMode() bool { return tensor.DebugMode() }

// RecordUse logs an access of the given kind against t's byte range. No-op
// unless debug mode is on.
func RecordUse(t Tensor, use UseKind) { tensor.RecordUse(t, use) }

// RegisterChange marks t's byte range as mutated outside the RecordUse
// convention. No-op unless debug mode is on.
func RegisterChange(t Tensor) { tensor.RegisterChange(t) }

// CaptureTick returns the current tick of t's storage for later use with
// CheckUnchangedSince.
func CaptureTick(t Tensor) int64 { return tensor.CaptureTick(t) }

// CheckUnchangedSince reports whether t's byte range is unmutated since the
// captured tick. Always true when debug mode is off.
func CheckUnchangedSince(tick int64, t Tensor) bool {
	return tensor.CheckUnchangedSince(tick, t)
}

// DebugNormalOp validates and records the declared access contract of a
// two-tensor operation. No-op unless debug mode is on.
func DebugNormalOp(a Tensor, aUse UseKind, b Tensor, bUse UseKind) {
	tensor.DebugNormalOp(a, aUse, b, bUse)
}

// DebugNormalOp3 is the three-tensor form of DebugNormalOp; c is the output
// argument by convention.
func DebugNormalOp3(a Tensor, aUse UseKind, b Tensor, bUse UseKind, c Tensor, cUse UseKind) {
	tensor.DebugNormalOp3(a, aUse, b, bUse, c, cUse)
}
