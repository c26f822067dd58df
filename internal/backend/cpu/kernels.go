package cpu

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/strata-ml/strata/internal/parallel"
	"github.com/strata-ml/strata/internal/pattern"
	"github.com/strata-ml/strata/internal/tensor"
)

// Add computes out = a + b elementwise, broadcasting a and b to out's dims.
// Supported element types: Float32, Float64.
func (b *Backend) Add(a, bb, out tensor.Tensor) error {
	if err := checkNormal3(a, bb, out); err != nil {
		return err
	}
	tensor.DebugNormalOp3(a, tensor.Read, bb, tensor.Read, out, tensor.Write)

	ae, be, oe, err := alignInputs(a, bb, out)
	if err != nil {
		return err
	}
	switch out.DType() {
	case tensor.Float64:
		return b.addF64(ae, be, oe)
	case tensor.Float32:
		return b.addF32(ae, be, oe)
	default:
		return errors.Errorf("cpu: Add: unsupported dtype %s", out.DType())
	}
}

// Scale computes out = alpha * src elementwise, broadcasting src to out's
// dims.
func (b *Backend) Scale(src tensor.Tensor, alpha float64, out tensor.Tensor) error {
	if err := checkNormal2(src, out); err != nil {
		return err
	}
	tensor.DebugNormalOp(src, tensor.Read, out, tensor.Write)

	se, oe, err := alignInput(src, out)
	if err != nil {
		return err
	}
	switch out.DType() {
	case tensor.Float64:
		sd, od, err := f64Pair(se, oe)
		if err != nil {
			return err
		}
		if sLo, oLo, n, ok := contiguousPair(se, oe); ok {
			parallel.ForChunks(n, func(lo, hi int) {
				floats.ScaleTo(od[oLo+lo:oLo+hi], alpha, sd[sLo+lo:sLo+hi])
			}, b.cfg)
			return nil
		}
		forEach2(oe.Dims(), se.Strides(), oe.Strides(), se.Pattern().Offset(), oe.Pattern().Offset(),
			func(is, io int) { od[io] = alpha * sd[is] })
		return nil
	case tensor.Float32:
		sd, od, err := f32Pair(se, oe)
		if err != nil {
			return err
		}
		a32 := float32(alpha)
		// gonum's floats package is float64-only; the f32 fast path is a plain
		// chunked loop.
		if sLo, oLo, n, ok := contiguousPair(se, oe); ok {
			parallel.ForChunks(n, func(lo, hi int) {
				for i := lo; i < hi; i++ {
					od[oLo+i] = a32 * sd[sLo+i]
				}
			}, b.cfg)
			return nil
		}
		forEach2(oe.Dims(), se.Strides(), oe.Strides(), se.Pattern().Offset(), oe.Pattern().Offset(),
			func(is, io int) { od[io] = a32 * sd[is] })
		return nil
	default:
		return errors.Errorf("cpu: Scale: unsupported dtype %s", out.DType())
	}
}

// Copy copies src into out elementwise, broadcasting src to out's dims.
func (b *Backend) Copy(src, out tensor.Tensor) error {
	return b.Scale(src, 1, out)
}

// Fill sets every element of out to v.
func (b *Backend) Fill(out tensor.Tensor, v float64) error {
	tensor.RecordUse(out, tensor.Write)
	c := tensor.Canonicalize(out)
	switch out.DType() {
	case tensor.Float64:
		od, err := c.Storage().AsFloat64()
		if err != nil {
			return err
		}
		p := c.Pattern()
		if contiguous1(p) {
			off := p.Offset()
			parallel.For(p.NumElements(), func(i int) { od[off+i] = v }, b.cfg)
			return nil
		}
		forEach2(p.Dims(), p.Strides(), p.Strides(), p.Offset(), p.Offset(),
			func(_, io int) { od[io] = v })
		return nil
	case tensor.Float32:
		od, err := c.Storage().AsFloat32()
		if err != nil {
			return err
		}
		v32 := float32(v)
		p := c.Pattern()
		if contiguous1(p) {
			off := p.Offset()
			parallel.For(p.NumElements(), func(i int) { od[off+i] = v32 }, b.cfg)
			return nil
		}
		forEach2(p.Dims(), p.Strides(), p.Strides(), p.Offset(), p.Offset(),
			func(_, io int) { od[io] = v32 })
		return nil
	default:
		return errors.Errorf("cpu: Fill: unsupported dtype %s", out.DType())
	}
}

func (b *Backend) addF64(ae, be, oe tensor.Tensor) error {
	ad, err := ae.Storage().AsFloat64()
	if err != nil {
		return err
	}
	bd, err := be.Storage().AsFloat64()
	if err != nil {
		return err
	}
	od, err := oe.Storage().AsFloat64()
	if err != nil {
		return err
	}
	pa, pb, po := ae.Pattern(), be.Pattern(), oe.Pattern()
	if contiguous1(pa) && contiguous1(pb) && contiguous1(po) {
		n := po.NumElements()
		as := ad[pa.Offset() : pa.Offset()+n]
		bs := bd[pb.Offset() : pb.Offset()+n]
		os := od[po.Offset() : po.Offset()+n]
		parallel.ForChunks(n, func(lo, hi int) {
			floats.AddTo(os[lo:hi], as[lo:hi], bs[lo:hi])
		}, b.cfg)
		return nil
	}
	forEach3(po.Dims(), pa.Strides(), pb.Strides(), po.Strides(),
		pa.Offset(), pb.Offset(), po.Offset(),
		func(ia, ib, io int) { od[io] = ad[ia] + bd[ib] })
	return nil
}

func (b *Backend) addF32(ae, be, oe tensor.Tensor) error {
	ad, err := ae.Storage().AsFloat32()
	if err != nil {
		return err
	}
	bd, err := be.Storage().AsFloat32()
	if err != nil {
		return err
	}
	od, err := oe.Storage().AsFloat32()
	if err != nil {
		return err
	}
	pa, pb, po := ae.Pattern(), be.Pattern(), oe.Pattern()
	forEach3(po.Dims(), pa.Strides(), pb.Strides(), po.Strides(),
		pa.Offset(), pb.Offset(), po.Offset(),
		func(ia, ib, io int) { od[io] = ad[ia] + bd[ib] })
	return nil
}

// checkNormal3 validates the release-mode preconditions of a normal 3-tensor
// op; debug mode re-checks and aborts instead.
func checkNormal3(a, b, out tensor.Tensor) error {
	if !tensor.Compatible3(a, b, out) {
		return errors.Errorf("cpu: dtype/device mismatch: %s, %s, %s", a, b, out)
	}
	if !tensor.Broadcastable3(a, b, out, true) {
		return errors.Errorf("cpu: dims %v, %v not broadcastable into %v", a.Dims(), b.Dims(), out.Dims())
	}
	return nil
}

func checkNormal2(src, out tensor.Tensor) error {
	if !tensor.Compatible(src, out) {
		return errors.Errorf("cpu: dtype/device mismatch: %s, %s", src, out)
	}
	if !tensor.Broadcastable(src, out, true) {
		return errors.Errorf("cpu: dims %v not broadcastable into %v", src.Dims(), out.Dims())
	}
	return nil
}

// alignInputs broadcasts a and b to out's dims and jointly compresses the
// three patterns to the minimal loop nest.
func alignInputs(a, b, out tensor.Tensor) (ae, be, oe tensor.Tensor, err error) {
	ae, err = a.Broadcast(out.Dims())
	if err != nil {
		return
	}
	be, err = b.Broadcast(out.Dims())
	if err != nil {
		return
	}
	ts := tensor.CompressTensors([]tensor.Tensor{ae, be, out})
	return ts[0], ts[1], ts[2], nil
}

func alignInput(src, out tensor.Tensor) (se, oe tensor.Tensor, err error) {
	se, err = src.Broadcast(out.Dims())
	if err != nil {
		return
	}
	ts := tensor.CompressTensors([]tensor.Tensor{se, out})
	return ts[0], ts[1], nil
}

func f64Pair(a, b tensor.Tensor) ([]float64, []float64, error) {
	ad, err := a.Storage().AsFloat64()
	if err != nil {
		return nil, nil, err
	}
	bd, err := b.Storage().AsFloat64()
	if err != nil {
		return nil, nil, err
	}
	return ad, bd, nil
}

func f32Pair(a, b tensor.Tensor) ([]float32, []float32, error) {
	ad, err := a.Storage().AsFloat32()
	if err != nil {
		return nil, nil, err
	}
	bd, err := b.Storage().AsFloat32()
	if err != nil {
		return nil, nil, err
	}
	return ad, bd, nil
}

// contiguous1 reports whether p is a scalar or a single stride-1 axis.
func contiguous1(p pattern.Pattern) bool {
	return p.NumAxes() == 0 || (p.NumAxes() == 1 && p.Stride(0) == 1)
}

// contiguousPair reports whether src and out compress to plain stride-1 spans
// of the same length, returning their base offsets.
func contiguousPair(src, out tensor.Tensor) (srcLo, outLo, n int, ok bool) {
	ps, po := src.Pattern(), out.Pattern()
	if !contiguous1(ps) || !contiguous1(po) || ps.NumElements() != po.NumElements() {
		return 0, 0, 0, false
	}
	return ps.Offset(), po.Offset(), po.NumElements(), true
}

// forEach2 walks the index space of dims, invoking f with the element offsets
// of the two tensors at each index.
func forEach2(dims []int, s1, s2 []int, o1, o2 int, f func(i1, i2 int)) {
	if len(dims) == 0 {
		f(o1, o2)
		return
	}
	idx := make([]int, len(dims))
	i1, i2 := o1, o2
	for {
		f(i1, i2)
		axis := len(dims) - 1
		for axis >= 0 {
			idx[axis]++
			i1 += s1[axis]
			i2 += s2[axis]
			if idx[axis] < dims[axis] {
				break
			}
			i1 -= dims[axis] * s1[axis]
			i2 -= dims[axis] * s2[axis]
			idx[axis] = 0
			axis--
		}
		if axis < 0 {
			return
		}
	}
}

// forEach3 is forEach2 for three tensors.
func forEach3(dims []int, s1, s2, s3 []int, o1, o2, o3 int, f func(i1, i2, i3 int)) {
	if len(dims) == 0 {
		f(o1, o2, o3)
		return
	}
	idx := make([]int, len(dims))
	i1, i2, i3 := o1, o2, o3
	for {
		f(i1, i2, i3)
		axis := len(dims) - 1
		for axis >= 0 {
			idx[axis]++
			i1 += s1[axis]
			i2 += s2[axis]
			i3 += s3[axis]
			if idx[axis] < dims[axis] {
				break
			}
			i1 -= dims[axis] * s1[axis]
			i2 -= dims[axis] * s2[axis]
			i3 -= dims[axis] * s3[axis]
			idx[axis] = 0
			axis--
		}
		if axis < 0 {
			return
		}
	}
}
