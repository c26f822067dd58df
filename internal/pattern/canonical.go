package pattern

import "sort"

// Canonicalize reduces p to the unique normal form for its addressed element
// set:
//
//   - negative strides are flipped positive, folding the shift into the
//     offset (the addressed set is unchanged);
//   - axes of size 1 and broadcast axes (stride 0) are dropped, since they
//     contribute a single point;
//   - remaining axes are sorted by descending stride;
//   - adjacent axes are merged when the outer stride equals the inner
//     dim times the inner stride (contiguous-merge).
//
// The result is idempotent: Canonicalize(Canonicalize(p)) == Canonicalize(p).
// Note the normal form describes the memory footprint, not the logical shape:
// a broadcast axis repeats addresses and is therefore absorbed.
func Canonicalize(p Pattern) Pattern {
	offset := p.offset
	type axis struct{ dim, stride int }
	axes := make([]axis, 0, len(p.dims))
	for i, d := range p.dims {
		s := p.strides[i]
		if d == 1 || s == 0 {
			continue
		}
		if s < 0 {
			offset += (d - 1) * s
			s = -s
		}
		axes = append(axes, axis{d, s})
	}

	sort.SliceStable(axes, func(i, j int) bool {
		if axes[i].stride != axes[j].stride {
			return axes[i].stride > axes[j].stride
		}
		return axes[i].dim > axes[j].dim
	})

	// Merge scan. Strides are descending, so a merge (which keeps the inner
	// stride) preserves the ordering and one pass suffices.
	merged := axes[:0]
	for _, ax := range axes {
		if n := len(merged); n > 0 && merged[n-1].stride == ax.dim*ax.stride {
			merged[n-1].dim *= ax.dim
			merged[n-1].stride = ax.stride
			continue
		}
		merged = append(merged, ax)
	}

	dims := make([]int, len(merged))
	strides := make([]int, len(merged))
	for i, ax := range merged {
		dims[i] = ax.dim
		strides[i] = ax.stride
	}
	return Pattern{dims: dims, strides: strides, offset: offset}
}

// Compress jointly reduces a batch of Patterns to the minimal axis count
// required to express the batch's combined broadcasting structure. It is used
// by op dispatch to shrink the loop nest an elementwise kernel iterates over.
//
// The inputs are assumed pairwise Broadcastable. After compression:
//
//   - each pattern's addressed element set is unchanged;
//   - all pairwise Broadcastable/SameDim relationships are unchanged (a
//     broadcast axis stays a broadcast axis, a real axis stays real).
//
// Axes where the combined dim is 1 are removed; adjacent axes are merged only
// when every pattern in the batch can merge them (same broadcast structure
// and contiguous strides).
func Compress(ps []Pattern) []Pattern {
	if len(ps) == 0 {
		return nil
	}
	n := 0
	for _, p := range ps {
		n = max(n, len(p.dims))
	}

	// Aligned working copies: dims left-padded with 1, and every dim-1 axis
	// normalized to stride 0 (its stride never affects addressing).
	dims := make([][]int, len(ps))
	strides := make([][]int, len(ps))
	for i, p := range ps {
		dims[i] = PadDims(p.dims, n)
		strides[i] = make([]int, n)
		copy(strides[i][n-len(p.strides):], p.strides)
		for k, d := range dims[i] {
			if d == 1 {
				strides[i][k] = 0
			}
		}
	}
	combined := make([]int, n)
	for k := 0; k < n; k++ {
		combined[k] = 1
		for i := range ps {
			combined[k] = max(combined[k], dims[i][k])
		}
	}

	// Drop axes with combined dim 1: every pattern has dim 1 there.
	keep := make([]int, 0, n)
	for k := 0; k < n; k++ {
		if combined[k] > 1 {
			keep = append(keep, k)
		}
	}

	// Merge adjacent kept axes outer-to-inner where the whole batch agrees.
	type axis struct{ dim, stride int }
	out := make([][]axis, len(ps))
	outCombined := []int(nil)
	for _, k := range keep {
		mergeable := len(outCombined) > 0
		if mergeable {
			for i := range ps {
				last := out[i][len(out[i])-1]
				bOuter := last.dim == 1
				bInner := dims[i][k] == 1
				if bOuter != bInner {
					mergeable = false
					break
				}
				if !bOuter && last.stride != dims[i][k]*strides[i][k] {
					mergeable = false
					break
				}
			}
		}
		if mergeable {
			outCombined[len(outCombined)-1] *= combined[k]
			for i := range ps {
				last := &out[i][len(out[i])-1]
				if last.dim != 1 {
					last.dim *= dims[i][k]
					last.stride = strides[i][k]
				}
			}
			continue
		}
		outCombined = append(outCombined, combined[k])
		for i := range ps {
			out[i] = append(out[i], axis{dims[i][k], strides[i][k]})
		}
	}

	result := make([]Pattern, len(ps))
	for i, p := range ps {
		rdims := make([]int, len(out[i]))
		rstrides := make([]int, len(out[i]))
		for k, ax := range out[i] {
			rdims[k] = ax.dim
			rstrides[k] = ax.stride
		}
		result[i] = Pattern{dims: rdims, strides: rstrides, offset: p.offset}
	}
	return result
}
