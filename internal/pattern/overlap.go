package pattern

// Overlap detection between two strided views is, in general, a lattice
// intersection problem. Intersect layers three checks, cheapest first:
//
//  1. bounding intervals: if the inclusive [min, max] offset ranges are
//     disjoint, the addressed sets cannot meet;
//  2. stride congruence: every offset of a canonical pattern is congruent to
//     its base offset modulo the gcd of its strides, so if the two base
//     offsets differ by a non-multiple of the combined gcd there is no
//     common point;
//  3. exact enumeration for views up to exhaustiveLimit elements each
//     (canonical patterns, so axis counts are small and every offset is
//     distinct).
//
// Above the limit the answer is a conservative true: the fast paths may
// over-report potential overlap but never under-report.

// exhaustiveLimit bounds the element count per view for the exact overlap
// check. Canonical patterns at or under this size are enumerated.
const exhaustiveLimit = 1 << 12

// Intersect reports whether the addressed element sets of a and b share at
// least one offset. It never returns a false negative; for a pair of views
// larger than exhaustiveLimit elements whose bounding intervals and stride
// lattices are compatible, it conservatively returns true.
func Intersect(a, b Pattern) bool {
	a, b = Canonicalize(a), Canonicalize(b)

	aLo, aHi := a.MinMaxOffset()
	bLo, bHi := b.MinMaxOffset()
	if aHi < bLo || bHi < aLo {
		return false
	}

	if g := gcd(strideGCD(a), strideGCD(b)); g > 0 && (a.offset-b.offset)%g != 0 {
		return false
	}

	if a.NumElements() <= exhaustiveLimit && b.NumElements() <= exhaustiveLimit {
		small, large := a, b
		if small.NumElements() > large.NumElements() {
			small, large = large, small
		}
		seen := make(map[int]struct{}, small.NumElements())
		small.walkOffsets(func(off int) bool {
			seen[off] = struct{}{}
			return true
		})
		found := false
		large.walkOffsets(func(off int) bool {
			if _, ok := seen[off]; ok {
				found = true
				return false
			}
			return true
		})
		return found
	}

	return true
}

// walkOffsets visits every addressed element offset of p, stopping early if
// visit returns false. Order is row-major over the axes.
func (p Pattern) walkOffsets(visit func(off int) bool) {
	if len(p.dims) == 0 {
		visit(p.offset)
		return
	}
	idx := make([]int, len(p.dims))
	off := p.offset
	for {
		if !visit(off) {
			return
		}
		axis := len(p.dims) - 1
		for axis >= 0 {
			idx[axis]++
			off += p.strides[axis]
			if idx[axis] < p.dims[axis] {
				break
			}
			off -= p.dims[axis] * p.strides[axis]
			idx[axis] = 0
			axis--
		}
		if axis < 0 {
			return
		}
	}
}

// strideGCD returns the gcd of the pattern's strides, or 0 for a scalar.
func strideGCD(p Pattern) int {
	g := 0
	for _, s := range p.strides {
		g = gcd(g, s)
	}
	return g
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
