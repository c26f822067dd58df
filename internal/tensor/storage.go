package tensor

import (
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/strata-ml/strata/internal/hazard"
)

// Region is an allocated span of storage bytes. Host allocators return data
// in place; device allocators may transfer on first Bytes call.
type Region interface {
	// Bytes returns the host-visible bytes of the region.
	Bytes() ([]byte, error)

	// Release frees the region. Bytes must not be used afterwards.
	Release()
}

// Allocator realizes storage regions for a device. Implementations live in
// internal/backend; a nil Allocator on Storage means plain host memory.
type Allocator interface {
	// Allocate creates a region of the given byte size. If zero is true the
	// region's initial content must be zero-filled.
	Allocate(size int, zero bool) (Region, error)

	// Device returns the device the allocator serves.
	Device() Device
}

// hostRegion is the default host-memory region.
type hostRegion struct {
	data []byte
}

func (r *hostRegion) Bytes() ([]byte, error) { return r.data, nil }
func (r *hostRegion) Release()               { r.data = nil }

// Storage owns a contiguous memory region of known byte length, with an
// associated element type and execution device. It is reference-counted and
// may be shared by arbitrarily many TensorImpls; the backing region is
// allocated lazily on first real access and freed when the last reference is
// released.
//
// Storage holds exactly one hazard tracker, also created lazily, reachable
// through GetMemoryChecker.
type Storage struct {
	id      uuid.UUID
	byteLen int
	dtype   DataType
	device  Device
	alloc   Allocator // nil means host memory

	mu          sync.Mutex
	region      Region
	data        []byte // host-visible bytes once realized
	zeroOnAlloc bool
	checker     *hazard.Tracker

	refCount atomic.Int32
}

// NewStorage creates an unrealized storage of byteLen bytes for the given
// element type. The device is taken from the allocator, or CPU when alloc is
// nil. The initial reference count is 1.
func NewStorage(byteLen int, dtype DataType, alloc Allocator) *Storage {
	device := CPU
	if alloc != nil {
		device = alloc.Device()
	}
	s := &Storage{
		id:      uuid.New(),
		byteLen: byteLen,
		dtype:   dtype,
		device:  device,
		alloc:   alloc,
	}
	s.refCount.Store(1)
	return s
}

// ID returns the storage's unique identity, used in hazard diagnostics.
func (s *Storage) ID() uuid.UUID { return s.id }

// ByteLen returns the full byte extent of the storage region.
func (s *Storage) ByteLen() int { return s.byteLen }

// DType returns the element type the storage was created for.
func (s *Storage) DType() DataType { return s.dtype }

// Device returns the execution device the storage lives on.
func (s *Storage) Device() Device { return s.device }

// Realized reports whether the backing region has been allocated.
func (s *Storage) Realized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.region != nil
}

// ZeroOnAllocation requests that the backing region be zero-filled when it is
// realized. A no-op if the region is already allocated.
func (s *Storage) ZeroOnAllocation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.region == nil {
		s.zeroOnAlloc = true
	}
}

// Realize allocates the backing region if needed and returns its host-visible
// bytes. Allocation failures are returned to the caller; they are runtime
// resource failures, not correctness violations.
func (s *Storage) Realize() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.region != nil {
		return s.data, nil
	}
	var region Region
	if s.alloc == nil {
		region = &hostRegion{data: make([]byte, s.byteLen)}
	} else {
		var err error
		region, err = s.alloc.Allocate(s.byteLen, s.zeroOnAlloc)
		if err != nil {
			return nil, errors.Wrapf(err, "storage %s: failed to allocate %s on %s",
				s.id, humanize.Bytes(uint64(s.byteLen)), s.device)
		}
	}
	data, err := region.Bytes()
	if err != nil {
		region.Release()
		return nil, errors.Wrapf(err, "storage %s: failed to access %s region on %s",
			s.id, humanize.Bytes(uint64(s.byteLen)), s.device)
	}
	s.region = region
	s.data = data
	return s.data, nil
}

// GetMemoryChecker returns the storage's hazard tracker, creating it on first
// use. The tracker lives exactly as long as the storage.
func (s *Storage) GetMemoryChecker() *hazard.Tracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.checker == nil {
		s.checker = hazard.NewTracker()
	}
	return s.checker
}

// Retain increments the reference count. Called when a new TensorImpl takes a
// reference to the storage.
func (s *Storage) Retain() {
	s.refCount.Add(1)
}

// Release decrements the reference count and frees the backing region when it
// reaches zero.
func (s *Storage) Release() {
	if s.refCount.Add(-1) == 0 {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.region != nil {
			s.region.Release()
			s.region = nil
			s.data = nil
		}
	}
}
