// Package pattern provides the shape/stride descriptor for tensor views in
// the Strata library.
//
// A Pattern describes which element offsets of an underlying storage region a
// view addresses, without referencing any data. All algorithms in this
// package (broadcasting, canonicalization, overlap detection) are pure
// functions over Patterns.
package pattern

import (
	"fmt"

	"github.com/pkg/errors"
)

// Pattern is an immutable shape/stride descriptor for a tensor view.
//
// Axes are kept in public order: axis 0 is the outermost (leftmost)
// dimension, matching conventional shape notation. Strides are in element
// units; a stride of 0 denotes a broadcast axis that aliases a single element
// across a logical dimension, and negative strides denote reversed axes.
// A Pattern with zero axes is a scalar addressing exactly one element.
type Pattern struct {
	dims    []int
	strides []int
	offset  int
}

// New creates a Pattern from per-axis dims and strides plus a base element
// offset. The slices are copied. Returns an error if the axis counts differ
// or any dim is < 1.
func New(dims, strides []int, offset int) (Pattern, error) {
	if len(dims) != len(strides) {
		return Pattern{}, errors.Errorf("pattern: %d dims but %d strides", len(dims), len(strides))
	}
	for i, d := range dims {
		if d < 1 {
			return Pattern{}, errors.Errorf("pattern: dim %d on axis %d (must be >= 1)", d, i)
		}
	}
	return Pattern{
		dims:    append([]int(nil), dims...),
		strides: append([]int(nil), strides...),
		offset:  offset,
	}, nil
}

// MustNew is New that panics on invalid input. For literals in tests and
// internal call sites with known-valid axes.
func MustNew(dims, strides []int, offset int) Pattern {
	p, err := New(dims, strides, offset)
	if err != nil {
		panic(err)
	}
	return p
}

// FromShape builds the row-major contiguous Pattern for the given dims with
// offset 0. An empty dims slice yields a scalar Pattern.
func FromShape(dims []int) (Pattern, error) {
	strides := make([]int, len(dims))
	s := 1
	for i := len(dims) - 1; i >= 0; i-- {
		strides[i] = s
		s *= dims[i]
	}
	return New(dims, strides, 0)
}

// NumAxes returns the number of axes. Zero denotes a scalar.
func (p Pattern) NumAxes() int {
	return len(p.dims)
}

// Dim returns the dimension size of the given axis in public order.
func (p Pattern) Dim(axis int) int {
	return p.dims[axis]
}

// Stride returns the element stride of the given axis in public order.
func (p Pattern) Stride(axis int) int {
	return p.strides[axis]
}

// Dims returns a copy of the per-axis dimension sizes.
func (p Pattern) Dims() []int {
	return append([]int(nil), p.dims...)
}

// Strides returns a copy of the per-axis element strides.
func (p Pattern) Strides() []int {
	return append([]int(nil), p.strides...)
}

// Offset returns the base element offset of the view.
func (p Pattern) Offset() int {
	return p.offset
}

// NumElements returns the product of the dims. A scalar has 1 element.
func (p Pattern) NumElements() int {
	n := 1
	for _, d := range p.dims {
		n *= d
	}
	return n
}

// MinMaxOffset returns the inclusive minimum and maximum element offsets
// addressable through p. Negative strides contribute to the minimum,
// non-negative strides to the maximum.
func (p Pattern) MinMaxOffset() (lo, hi int) {
	lo, hi = p.offset, p.offset
	for i, d := range p.dims {
		s := p.strides[i]
		if s >= 0 {
			hi += (d - 1) * s
		} else {
			lo += (d - 1) * s
		}
	}
	return lo, hi
}

// Equal reports whether p and o have identical dims, strides and offset.
// This is representation equality, not addressed-set equality.
func (p Pattern) Equal(o Pattern) bool {
	if len(p.dims) != len(o.dims) || p.offset != o.offset {
		return false
	}
	for i := range p.dims {
		if p.dims[i] != o.dims[i] || p.strides[i] != o.strides[i] {
			return false
		}
	}
	return true
}

// ScaleStrides returns a Pattern with strides and offset multiplied by
// factor, converting between element and byte addressing.
func (p Pattern) ScaleStrides(factor int) Pattern {
	strides := make([]int, len(p.strides))
	for i, s := range p.strides {
		strides[i] = s * factor
	}
	return Pattern{dims: append([]int(nil), p.dims...), strides: strides, offset: p.offset * factor}
}

// String returns a human-readable representation of the pattern.
func (p Pattern) String() string {
	return fmt.Sprintf("Pattern(dims=%v, strides=%v, offset=%d)", p.dims, p.strides, p.offset)
}
