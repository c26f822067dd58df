package tensor

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/strata-ml/strata/internal/pattern"
)

// Tensor is a lightweight handle exposing shared ownership of exactly one
// TensorImpl. Copying a Tensor shares the TensorImpl and its Storage; it does
// not copy data.
type Tensor struct {
	impl *TensorImpl
}

// New creates a fresh tensor of the given dims and element type, backed by a
// newly created storage spanning exactly the tensor's elements. The storage
// is not allocated until first real access; the device is taken from the
// allocator (CPU when alloc is nil).
func New(dims []int, dtype DataType, alloc Allocator) (Tensor, error) {
	p, err := pattern.FromShape(dims)
	if err != nil {
		return Tensor{}, err
	}
	storage := NewStorage(p.NumElements()*dtype.Size(), dtype, alloc)
	impl := newImpl(p, storage)
	storage.Release() // impl now holds the creating reference
	return Tensor{impl: impl}, nil
}

// WithPattern returns a tensor referencing a new TensorImpl: identical to t
// except for the given pattern. The storage is shared, never copied.
func WithPattern(t Tensor, p pattern.Pattern) Tensor {
	return Tensor{impl: newImpl(p, t.impl.storage)}
}

// Impl returns the underlying shared TensorImpl.
func (t Tensor) Impl() *TensorImpl { return t.impl }

// Pattern returns the tensor's shape/stride descriptor.
func (t Tensor) Pattern() pattern.Pattern { return t.impl.pattern }

// Storage returns the storage region the tensor views.
func (t Tensor) Storage() *Storage { return t.impl.storage }

// DType returns the tensor's element type.
func (t Tensor) DType() DataType { return t.impl.dtype }

// Device returns the tensor's execution device.
func (t Tensor) Device() Device { return t.impl.device }

// NumAxes returns the number of axes of the tensor's pattern.
func (t Tensor) NumAxes() int { return t.impl.pattern.NumAxes() }

// Dims returns the tensor's dimension sizes in public order.
func (t Tensor) Dims() []int { return t.impl.pattern.Dims() }

// Strides returns the tensor's element strides in public order.
func (t Tensor) Strides() []int { return t.impl.pattern.Strides() }

// NumElements returns the product of the tensor's dims.
func (t Tensor) NumElements() int { return t.impl.pattern.NumElements() }

// ByteRange returns the half-open byte extent [lo, hi) the tensor addresses
// within its storage.
func (t Tensor) ByteRange() (lo, hi int) { return t.impl.byteRange() }

// Data realizes the tensor's storage if needed and returns its full
// host-visible byte region. Offsets from the tensor's pattern index into this
// slice after scaling by the element size.
func (t Tensor) Data() ([]byte, error) {
	return t.impl.storage.Realize()
}

// Release drops the handle's storage reference. The handle must not be used
// afterwards. Optional: unreleased storage is reclaimed by the GC; Release
// exists for callers that want deterministic region teardown.
func (t Tensor) Release() {
	t.impl.storage.Release()
}

// String returns a human-readable description of the tensor.
func (t Tensor) String() string {
	return fmt.Sprintf("Tensor[%s]%v on %s", t.impl.dtype, t.impl.pattern.Dims(), t.impl.device)
}

// Slice returns a view of t restricted to [start, stop) along the given
// axis. The view aliases t's storage.
func (t Tensor) Slice(axis, start, stop int) (Tensor, error) {
	p := t.impl.pattern
	if axis < 0 || axis >= p.NumAxes() {
		return Tensor{}, errors.Errorf("slice: axis %d out of range for %d axes", axis, p.NumAxes())
	}
	if start < 0 || stop > p.Dim(axis) || start >= stop {
		return Tensor{}, errors.Errorf("slice: range [%d, %d) invalid for dim %d", start, stop, p.Dim(axis))
	}
	dims := p.Dims()
	dims[axis] = stop - start
	np, err := pattern.New(dims, p.Strides(), p.Offset()+start*p.Stride(axis))
	if err != nil {
		return Tensor{}, err
	}
	return WithPattern(t, np), nil
}

// Transpose returns a view of t with the two axes exchanged.
func (t Tensor) Transpose(axis1, axis2 int) (Tensor, error) {
	p := t.impl.pattern
	n := p.NumAxes()
	if axis1 < 0 || axis1 >= n || axis2 < 0 || axis2 >= n {
		return Tensor{}, errors.Errorf("transpose: axes (%d, %d) out of range for %d axes", axis1, axis2, n)
	}
	dims, strides := p.Dims(), p.Strides()
	dims[axis1], dims[axis2] = dims[axis2], dims[axis1]
	strides[axis1], strides[axis2] = strides[axis2], strides[axis1]
	np, err := pattern.New(dims, strides, p.Offset())
	if err != nil {
		return Tensor{}, err
	}
	return WithPattern(t, np), nil
}

// Flip returns a view of t with the given axis reversed, using a negative
// stride over the same storage.
func (t Tensor) Flip(axis int) (Tensor, error) {
	p := t.impl.pattern
	if axis < 0 || axis >= p.NumAxes() {
		return Tensor{}, errors.Errorf("flip: axis %d out of range for %d axes", axis, p.NumAxes())
	}
	strides := p.Strides()
	offset := p.Offset() + (p.Dim(axis)-1)*strides[axis]
	strides[axis] = -strides[axis]
	np, err := pattern.New(p.Dims(), strides, offset)
	if err != nil {
		return Tensor{}, err
	}
	return WithPattern(t, np), nil
}

// Broadcast returns a view of t expanded to the given dims: axes where t has
// dim 1 (after left padding) take stride 0 and alias the single element
// across the logical dimension.
func (t Tensor) Broadcast(dims []int) (Tensor, error) {
	p := t.impl.pattern
	target, err := pattern.New(dims, make([]int, len(dims)), 0)
	if err != nil {
		return Tensor{}, err
	}
	if !pattern.Broadcastable(p, target, true) {
		return Tensor{}, errors.Errorf("broadcast: dims %v not expandable to %v", p.Dims(), dims)
	}
	srcDims, srcStrides := p.Dims(), p.Strides()
	// The non-reducing guard above ensures any axes beyond the target rank
	// are dim 1; they carry no data and are squeezed away.
	for len(srcDims) > len(dims) {
		srcDims, srcStrides = srcDims[1:], srcStrides[1:]
	}
	padded := pattern.PadDims(srcDims, len(dims))
	paddedStrides := make([]int, len(dims))
	copy(paddedStrides[len(dims)-len(srcDims):], srcStrides)
	for i, d := range dims {
		if padded[i] == 1 && d > 1 {
			paddedStrides[i] = 0
		}
	}
	np, err := pattern.New(dims, paddedStrides, p.Offset())
	if err != nil {
		return Tensor{}, err
	}
	return WithPattern(t, np), nil
}

// Reshape returns a view of t with the given dims. Only row-major contiguous
// views can be reshaped without copying: a transposed or gapped pattern
// addresses its elements in a different order than the new dims imply, and
// returns an error instead.
func (t Tensor) Reshape(dims []int) (Tensor, error) {
	p := t.impl.pattern
	np, err := pattern.FromShape(dims)
	if err != nil {
		return Tensor{}, err
	}
	if np.NumElements() != p.NumElements() {
		return Tensor{}, errors.Errorf("reshape: %v has %d elements, %v has %d",
			p.Dims(), p.NumElements(), dims, np.NumElements())
	}
	// Row-major check: each axis of dim > 1 must stride by the product of the
	// dims inside it. Axes of dim 1 contribute nothing and are ignored.
	expect := 1
	for i := p.NumAxes() - 1; i >= 0; i-- {
		if p.Dim(i) > 1 {
			if p.Stride(i) != expect {
				return Tensor{}, errors.Errorf("reshape: pattern %s is not row-major contiguous", p)
			}
			expect *= p.Dim(i)
		}
	}
	np, err = pattern.New(dims, np.Strides(), p.Offset())
	if err != nil {
		return Tensor{}, err
	}
	return WithPattern(t, np), nil
}
