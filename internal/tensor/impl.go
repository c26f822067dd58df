package tensor

import (
	"github.com/strata-ml/strata/internal/pattern"
)

// TensorImpl is the shared, reference-counted unit combining a Pattern, a
// Storage reference and dtype/device metadata. Multiple Tensor handles may
// alias one TensorImpl; aliasing is a first-class, expected condition.
//
// A TensorImpl is never mutated in place once shared. Any operation that
// would alter its Pattern (canonicalization, compression, re-viewing)
// allocates a new TensorImpl with the same Storage reference, leaving other
// holders unaffected.
type TensorImpl struct {
	pattern pattern.Pattern
	storage *Storage
	dtype   DataType
	device  Device
}

// newImpl creates a TensorImpl over the given storage, taking a new storage
// reference.
func newImpl(p pattern.Pattern, storage *Storage) *TensorImpl {
	storage.Retain()
	return &TensorImpl{
		pattern: p,
		storage: storage,
		dtype:   storage.DType(),
		device:  storage.Device(),
	}
}

// Pattern returns the impl's shape/stride descriptor.
func (im *TensorImpl) Pattern() pattern.Pattern { return im.pattern }

// Storage returns the storage region the impl references.
func (im *TensorImpl) Storage() *Storage { return im.storage }

// DType returns the impl's element type.
func (im *TensorImpl) DType() DataType { return im.dtype }

// Device returns the impl's execution device.
func (im *TensorImpl) Device() Device { return im.device }

// byteRange returns the half-open byte extent [lo, hi) addressed through the
// impl's pattern, used for hazard tracking.
func (im *TensorImpl) byteRange() (lo, hi int) {
	size := im.dtype.Size()
	minOff, maxOff := im.pattern.MinMaxOffset()
	return minOff * size, maxOff*size + size
}
