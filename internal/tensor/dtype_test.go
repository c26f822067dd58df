package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataTypeSize(t *testing.T) {
	assert.Equal(t, 2, Float16.Size())
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 8, Float64.Size())
	assert.Equal(t, 4, Int32.Size())
	assert.Equal(t, 8, Int64.Size())
	assert.Equal(t, 1, Uint8.Size())
	assert.Equal(t, 1, Bool.Size())
}

func TestFloat16Conversion(t *testing.T) {
	for _, f := range []float32{0, 1, -1, 0.5, 65504} {
		bits := Float16FromFloat32(f)
		assert.Equal(t, f, Float16ToFloat32(bits), "value %v must round-trip", f)
	}
	// Half precision rounds; conversion must stay close.
	bits := Float16FromFloat32(3.14159)
	assert.InDelta(t, 3.14159, Float16ToFloat32(bits), 0.001)
}
