package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-ml/strata/internal/tensor"
)

func newF64(t *testing.T, dims []int, vals []float64) tensor.Tensor {
	t.Helper()
	ten, err := tensor.New(dims, tensor.Float64, nil)
	require.NoError(t, err)
	data, err := ten.Storage().AsFloat64()
	require.NoError(t, err)
	copy(data, vals)
	return ten
}

func newF32(t *testing.T, dims []int, vals []float32) tensor.Tensor {
	t.Helper()
	ten, err := tensor.New(dims, tensor.Float32, nil)
	require.NoError(t, err)
	data, err := ten.Storage().AsFloat32()
	require.NoError(t, err)
	copy(data, vals)
	return ten
}

func f64Values(t *testing.T, ten tensor.Tensor) []float64 {
	t.Helper()
	data, err := ten.Storage().AsFloat64()
	require.NoError(t, err)
	return data
}

func TestAddBroadcast(t *testing.T) {
	b := New()
	col := newF64(t, []int{3, 1}, []float64{1, 2, 3})
	row := newF64(t, []int{1, 4}, []float64{10, 20, 30, 40})
	out, err := tensor.New([]int{3, 4}, tensor.Float64, nil)
	require.NoError(t, err)

	require.NoError(t, b.Add(col, row, out))

	want := []float64{
		11, 21, 31, 41,
		12, 22, 32, 42,
		13, 23, 33, 43,
	}
	assert.Equal(t, want, f64Values(t, out))
}

func TestAddContiguousFastPath(t *testing.T) {
	b := New()
	const n = 4096 // large enough to split into parallel chunks
	av := make([]float64, n)
	bv := make([]float64, n)
	for i := range av {
		av[i] = float64(i)
		bv[i] = float64(2 * i)
	}
	a := newF64(t, []int{n}, av)
	bb := newF64(t, []int{n}, bv)
	out, err := tensor.New([]int{n}, tensor.Float64, nil)
	require.NoError(t, err)

	require.NoError(t, b.Add(a, bb, out))

	got := f64Values(t, out)
	for i := range got {
		require.Equal(t, float64(3*i), got[i], "element %d", i)
	}
}

func TestAddLowerRankOutput(t *testing.T) {
	b := New()
	// A leading singleton axis on an input is legal even when the output has
	// fewer axes.
	a := newF64(t, []int{1, 3}, []float64{1, 2, 3})
	bb := newF64(t, []int{3}, []float64{10, 20, 30})
	out, err := tensor.New([]int{3}, tensor.Float64, nil)
	require.NoError(t, err)

	require.NoError(t, b.Add(a, bb, out))
	assert.Equal(t, []float64{11, 22, 33}, f64Values(t, out))
}

func TestAddFloat32(t *testing.T) {
	b := New()
	a := newF32(t, []int{2, 2}, []float32{1, 2, 3, 4})
	bb := newF32(t, []int{2, 2}, []float32{10, 10, 10, 10})
	out, err := tensor.New([]int{2, 2}, tensor.Float32, nil)
	require.NoError(t, err)

	require.NoError(t, b.Add(a, bb, out))

	data, err := out.Storage().AsFloat32()
	require.NoError(t, err)
	assert.Equal(t, []float32{11, 12, 13, 14}, data)
}

func TestAddRejectsMismatches(t *testing.T) {
	b := New()
	f64 := newF64(t, []int{2}, []float64{1, 2})
	f32 := newF32(t, []int{2}, []float32{1, 2})
	out, err := tensor.New([]int{2}, tensor.Float64, nil)
	require.NoError(t, err)

	assert.Error(t, b.Add(f64, f32, out), "dtype mismatch")

	a := newF64(t, []int{3}, []float64{1, 2, 3})
	bb := newF64(t, []int{4}, []float64{1, 2, 3, 4})
	assert.Error(t, b.Add(a, bb, out), "dims not broadcastable")

	// Output smaller than the broadcast result is a reduction, not an add.
	big := newF64(t, []int{3, 2}, make([]float64, 6))
	small, err := tensor.New([]int{1, 2}, tensor.Float64, nil)
	require.NoError(t, err)
	assert.Error(t, b.Add(big, big, small))
}

func TestScale(t *testing.T) {
	b := New()
	src := newF64(t, []int{4}, []float64{1, 2, 3, 4})
	out, err := tensor.New([]int{4}, tensor.Float64, nil)
	require.NoError(t, err)

	require.NoError(t, b.Scale(src, 2.5, out))
	assert.Equal(t, []float64{2.5, 5, 7.5, 10}, f64Values(t, out))
}

func TestScaleBroadcast(t *testing.T) {
	b := New()
	row := newF64(t, []int{1, 3}, []float64{1, 2, 3})
	out, err := tensor.New([]int{2, 3}, tensor.Float64, nil)
	require.NoError(t, err)

	require.NoError(t, b.Scale(row, 10, out))
	assert.Equal(t, []float64{10, 20, 30, 10, 20, 30}, f64Values(t, out))
}

func TestScaleFastPath(t *testing.T) {
	b := New()
	const n = 4096
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = float64(i)
	}
	src := newF64(t, []int{n}, vals)
	out, err := tensor.New([]int{n}, tensor.Float64, nil)
	require.NoError(t, err)

	require.NoError(t, b.Scale(src, -1, out))
	got := f64Values(t, out)
	for i := range got {
		require.Equal(t, float64(-i), got[i], "element %d", i)
	}
}

func TestCopy(t *testing.T) {
	b := New()
	src := newF64(t, []int{2, 2}, []float64{1, 2, 3, 4})
	out, err := tensor.New([]int{2, 2}, tensor.Float64, nil)
	require.NoError(t, err)

	require.NoError(t, b.Copy(src, out))
	assert.Equal(t, []float64{1, 2, 3, 4}, f64Values(t, out))
}

func TestFill(t *testing.T) {
	b := New()
	out := newF64(t, []int{2, 3}, make([]float64, 6))
	require.NoError(t, b.Fill(out, 7))
	assert.Equal(t, []float64{7, 7, 7, 7, 7, 7}, f64Values(t, out))
}

func TestFillLargeContiguous(t *testing.T) {
	b := New()
	const n = 4096
	out := newF64(t, []int{n}, make([]float64, n))
	require.NoError(t, b.Fill(out, 3))
	got := f64Values(t, out)
	for i := range got {
		require.Equal(t, float64(3), got[i], "element %d", i)
	}
}

func TestScaleFastPathFloat32(t *testing.T) {
	b := New()
	const n = 4096
	vals := make([]float32, n)
	for i := range vals {
		vals[i] = float32(i)
	}
	src := newF32(t, []int{n}, vals)
	out, err := tensor.New([]int{n}, tensor.Float32, nil)
	require.NoError(t, err)

	require.NoError(t, b.Scale(src, 2, out))
	data, err := out.Storage().AsFloat32()
	require.NoError(t, err)
	for i := range data {
		require.Equal(t, float32(2*i), data[i], "element %d", i)
	}
}

func TestFillStridedView(t *testing.T) {
	b := New()
	m := newF64(t, []int{3, 3}, make([]float64, 9))

	// Fill only the middle column; the rest must stay zero.
	col, err := m.Slice(1, 1, 2)
	require.NoError(t, err)
	require.NoError(t, b.Fill(col, 5))

	want := []float64{
		0, 5, 0,
		0, 5, 0,
		0, 5, 0,
	}
	assert.Equal(t, want, f64Values(t, m))
}

func TestAddTransposedView(t *testing.T) {
	b := New()
	// a^T + b exercises the strided loop nest.
	a := newF64(t, []int{2, 3}, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	at, err := a.Transpose(0, 1)
	require.NoError(t, err)
	bb := newF64(t, []int{3, 2}, []float64{
		10, 20,
		30, 40,
		50, 60,
	})
	out, err := tensor.New([]int{3, 2}, tensor.Float64, nil)
	require.NoError(t, err)

	require.NoError(t, b.Add(at, bb, out))
	want := []float64{
		11, 24,
		32, 45,
		53, 66,
	}
	assert.Equal(t, want, f64Values(t, out))
}

func TestKernelsUnderDebugMode(t *testing.T) {
	prev := tensor.DebugMode()
	tensor.SetDebugMode(true)
	defer tensor.SetDebugMode(prev)

	b := New()
	a := newF64(t, []int{2, 2}, []float64{1, 2, 3, 4})
	bb := newF64(t, []int{2, 2}, []float64{5, 6, 7, 8})
	out, err := tensor.New([]int{2, 2}, tensor.Float64, nil)
	require.NoError(t, err)

	require.NoError(t, b.Add(a, bb, out))
	assert.Equal(t, []float64{6, 8, 10, 12}, f64Values(t, out))

	// In-place accumulate declares the output pattern twice: exact aliasing,
	// permitted by the instrumentation.
	assert.NotPanics(t, func() {
		require.NoError(t, b.Add(a, bb, a))
	})
	assert.Equal(t, []float64{6, 8, 10, 12}, f64Values(t, a))

	// Overlapping but non-identical views must abort.
	m := newF64(t, []int{4}, []float64{0, 0, 0, 0})
	lo, err := m.Slice(0, 0, 3)
	require.NoError(t, err)
	hi, err := m.Slice(0, 1, 4)
	require.NoError(t, err)
	assert.Panics(t, func() {
		_ = b.Copy(lo, hi)
	})
}
