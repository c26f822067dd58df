package tensor

import (
	"github.com/strata-ml/strata/internal/pattern"
)

// Compatible reports whether a and b share the same element type and
// execution device. No broadcasting is considered.
func Compatible(a, b Tensor) bool {
	return a.impl.dtype == b.impl.dtype && a.impl.device == b.impl.device
}

// Compatible3 reports whether a, b and c all share the same element type and
// execution device.
func Compatible3(a, b, c Tensor) bool {
	return Compatible(a, b) && Compatible(b, c)
}

// Broadcastable reports whether the patterns of a and b are broadcastable in
// the PyTorch sense: after left-padding the shorter dims with 1s, each pair
// of corresponding dims must be equal or contain a 1. With bNonReducing set,
// b may not have a dim of 1 where the corresponding dim of a is larger;
// callers pass the output tensor as b with this flag so a broadcast target
// cannot be accidentally smaller than what is written into it.
func Broadcastable(a, b Tensor, bNonReducing bool) bool {
	return pattern.Broadcastable(a.impl.pattern, b.impl.pattern, bNonReducing)
}

// Broadcastable3 reports whether a, b and c are pairwise broadcastable under
// the same padding, with c optionally non-reducing.
func Broadcastable3(a, b, c Tensor, cNonReducing bool) bool {
	return pattern.Broadcastable3(a.impl.pattern, b.impl.pattern, c.impl.pattern, cNonReducing)
}

// SameDim reports whether a and b have identical dims after left-padding with
// 1s. Stronger than Broadcastable.
func SameDim(a, b Tensor) bool {
	return pattern.SameDim(a.impl.pattern, b.impl.pattern)
}

// SameDim3 reports whether a, b and c all have identical dims after
// left-padding with 1s.
func SameDim3(a, b, c Tensor) bool {
	return pattern.SameDim3(a.impl.pattern, b.impl.pattern, c.impl.pattern)
}

// Overlap reports whether a and b reference the same Storage and their
// addressed byte sets geometrically intersect. Views of different storages
// never overlap, whatever their patterns.
func Overlap(a, b Tensor) bool {
	if a.impl.storage != b.impl.storage {
		return false
	}
	return pattern.Intersect(
		a.impl.pattern.ScaleStrides(a.impl.dtype.Size()),
		b.impl.pattern.ScaleStrides(b.impl.dtype.Size()),
	)
}

// IsWhole reports whether t's pattern addresses exactly the full byte extent
// of its storage: no gaps, no partial coverage, no out-of-bounds.
func IsWhole(t Tensor) bool {
	size := t.impl.dtype.Size()
	c := pattern.Canonicalize(t.impl.pattern.ScaleStrides(size))
	switch c.NumAxes() {
	case 0:
		return c.Offset() == 0 && t.impl.storage.ByteLen() == size
	case 1:
		return c.Offset() == 0 && c.Stride(0) == size &&
			c.Dim(0)*size == t.impl.storage.ByteLen()
	default:
		return false
	}
}

// Canonicalize ensures the tensor's pattern is in canonical form. If the
// pattern changes, a new TensorImpl sharing the same storage is allocated and
// returned via a new handle, since TensorImpls may be shared by other
// tensors; otherwise t is returned unmodified.
func Canonicalize(t Tensor) Tensor {
	c := pattern.Canonicalize(t.impl.pattern)
	if c.Equal(t.impl.pattern) {
		return t
	}
	return WithPattern(t, c)
}

// CompressTensors jointly reduces the patterns of the given tensors to the
// minimal axis count expressing their combined broadcasting structure, as
// elementwise kernel dispatch requires. Tensors whose pattern is unchanged
// keep their handle; the rest get fresh TensorImpls sharing their storage.
// Addressed byte sets and all pairwise Broadcastable/SameDim relations are
// preserved.
func CompressTensors(ts []Tensor) []Tensor {
	ps := make([]pattern.Pattern, len(ts))
	for i, t := range ts {
		ps[i] = t.impl.pattern
	}
	compressed := pattern.Compress(ps)
	out := make([]Tensor, len(ts))
	for i, t := range ts {
		if compressed[i].Equal(t.impl.pattern) {
			out[i] = t
		} else {
			out[i] = WithPattern(t, compressed[i])
		}
	}
	return out
}

// ZeroOnAllocation ensures that when t's storage region is eventually
// allocated, it will be zero-filled. No effect if the region is already
// allocated; storages are not allocated until actually used, so this is
// meaningful for freshly created tensors.
func ZeroOnAllocation(t Tensor) {
	t.impl.storage.ZeroOnAllocation()
}

// NumElements returns the number of elements in the tensor: the product of
// its dims.
func NumElements(t Tensor) int {
	return t.impl.pattern.NumElements()
}
