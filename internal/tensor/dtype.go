// Package tensor provides the core tensor metadata types for the Strata
// library: data types, devices, storage regions with hazard tracking, and the
// shared TensorImpl/Tensor handle pair over a shape/stride Pattern.
package tensor

import "github.com/x448/float16"

// DataType represents runtime type information for tensor elements.
type DataType int

// Supported element types.
const (
	Float16 DataType = iota
	Float32
	Float64
	Int32
	Int64
	Uint8
	Bool
)

// Size returns the byte size of one element of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float16:
		return 2
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	case Uint8, Bool:
		return 1
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float16:
		return "float16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// Float16FromFloat32 converts a float32 to its IEEE 754 half-precision bit
// pattern, the in-memory representation of Float16 elements.
func Float16FromFloat32(f float32) uint16 {
	return float16.Fromfloat32(f).Bits()
}

// Float16ToFloat32 converts a stored half-precision bit pattern back to
// float32.
func Float16ToFloat32(bits uint16) float32 {
	return float16.Frombits(bits).Float32()
}
