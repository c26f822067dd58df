package tensor

import (
	"fmt"
	"unsafe"
)

// Typed host views over a storage's full byte region. Offsets computed from a
// Pattern index into these slices directly. Each accessor realizes the
// storage on first use and panics if the storage was created for a different
// element type; allocation failures are returned.

// AsFloat32 interprets the storage region as []float32.
func (s *Storage) AsFloat32() ([]float32, error) {
	if s.dtype != Float32 {
		panic(fmt.Sprintf("storage dtype is %s, not float32", s.dtype))
	}
	data, err := s.Realize()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length from ByteLen
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), s.byteLen/4), nil
}

// AsFloat64 interprets the storage region as []float64.
func (s *Storage) AsFloat64() ([]float64, error) {
	if s.dtype != Float64 {
		panic(fmt.Sprintf("storage dtype is %s, not float64", s.dtype))
	}
	data, err := s.Realize()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length from ByteLen
	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), s.byteLen/8), nil
}

// AsUint16 interprets the storage region as []uint16; this is the raw bit
// representation of Float16 elements (see Float16ToFloat32).
func (s *Storage) AsUint16() ([]uint16, error) {
	if s.dtype != Float16 {
		panic(fmt.Sprintf("storage dtype is %s, not float16", s.dtype))
	}
	data, err := s.Realize()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length from ByteLen
	return unsafe.Slice((*uint16)(unsafe.Pointer(&data[0])), s.byteLen/2), nil
}

// AsInt32 interprets the storage region as []int32.
func (s *Storage) AsInt32() ([]int32, error) {
	if s.dtype != Int32 {
		panic(fmt.Sprintf("storage dtype is %s, not int32", s.dtype))
	}
	data, err := s.Realize()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length from ByteLen
	return unsafe.Slice((*int32)(unsafe.Pointer(&data[0])), s.byteLen/4), nil
}

// AsInt64 interprets the storage region as []int64.
func (s *Storage) AsInt64() ([]int64, error) {
	if s.dtype != Int64 {
		panic(fmt.Sprintf("storage dtype is %s, not int64", s.dtype))
	}
	data, err := s.Realize()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length from ByteLen
	return unsafe.Slice((*int64)(unsafe.Pointer(&data[0])), s.byteLen/8), nil
}

// AsUint8 interprets the storage region as []uint8.
func (s *Storage) AsUint8() ([]uint8, error) {
	if s.dtype != Uint8 {
		panic(fmt.Sprintf("storage dtype is %s, not uint8", s.dtype))
	}
	return s.Realize() // already []byte
}
