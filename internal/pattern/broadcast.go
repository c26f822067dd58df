package pattern

import "github.com/pkg/errors"

// PadDims returns dims left-padded with 1s to n axes. If dims already has n
// or more axes it is returned copied unchanged. This is the alignment helper
// used by all broadcasting predicates; callers computing a broadcast result
// shape reuse it.
func PadDims(dims []int, n int) []int {
	if len(dims) >= n {
		return append([]int(nil), dims...)
	}
	padded := make([]int, n)
	for i := 0; i < n-len(dims); i++ {
		padded[i] = 1
	}
	copy(padded[n-len(dims):], dims)
	return padded
}

// paddedDim returns the dim of axis i (counted from the right, 0 = innermost)
// treating missing leading axes as 1.
func paddedDim(dims []int, i int) int {
	if idx := len(dims) - 1 - i; idx >= 0 {
		return dims[idx]
	}
	return 1
}

// Broadcastable reports whether a and b are broadcastable in the
// NumPy/PyTorch sense: after left-padding the shorter pattern with dims of 1,
// corresponding dims must be equal or one of them must be 1.
//
// If bNonReducing is true, b is additionally forbidden from having a dim of 1
// where the corresponding dim of a is > 1. This is used for output tensors,
// which must not be silently smaller than what would be written into them.
//
// Scalar (0-axis) patterns are broadcastable with anything.
func Broadcastable(a, b Pattern, bNonReducing bool) bool {
	n := max(len(a.dims), len(b.dims))
	for i := 0; i < n; i++ {
		da, db := paddedDim(a.dims, i), paddedDim(b.dims, i)
		if da != db && da != 1 && db != 1 {
			return false
		}
		if bNonReducing && db == 1 && da > 1 {
			return false
		}
	}
	return true
}

// Broadcastable3 reports whether a, b and c are pairwise broadcastable under
// the same left padding. If cNonReducing is true, c may not have a dim of 1
// where the corresponding dim of a or b is > 1.
func Broadcastable3(a, b, c Pattern, cNonReducing bool) bool {
	if !Broadcastable(a, b, false) ||
		!Broadcastable(a, c, false) ||
		!Broadcastable(b, c, false) {
		return false
	}
	if !cNonReducing {
		return true
	}
	n := max(len(a.dims), len(b.dims), len(c.dims))
	for i := 0; i < n; i++ {
		dc := paddedDim(c.dims, i)
		if dc == 1 && (paddedDim(a.dims, i) > 1 || paddedDim(b.dims, i) > 1) {
			return false
		}
	}
	return true
}

// SameDim reports whether a and b have identical dims after left-padding with
// 1s. This is stronger than Broadcastable: no equal-or-one relaxation.
func SameDim(a, b Pattern) bool {
	n := max(len(a.dims), len(b.dims))
	for i := 0; i < n; i++ {
		if paddedDim(a.dims, i) != paddedDim(b.dims, i) {
			return false
		}
	}
	return true
}

// SameDim3 reports whether a, b and c all have identical dims after
// left-padding with 1s.
func SameDim3(a, b, c Pattern) bool {
	return SameDim(a, b) && SameDim(b, c)
}

// BroadcastShape computes the combined broadcast shape of the given dims
// lists: the elementwise maximum after left-padding with 1s. Returns an error
// if any pair of corresponding dims is incompatible.
func BroadcastShape(dimsList ...[]int) ([]int, error) {
	n := 0
	for _, dims := range dimsList {
		n = max(n, len(dims))
	}
	result := make([]int, n)
	for i := range result {
		result[i] = 1
	}
	for _, dims := range dimsList {
		padded := PadDims(dims, n)
		for i, d := range padded {
			switch {
			case result[i] == d || d == 1:
			case result[i] == 1:
				result[i] = d
			default:
				return nil, errors.Errorf("dims %v not broadcastable against %v (axis %d: %d vs %d)",
					dims, result, i, d, result[i])
			}
		}
	}
	return result, nil
}
