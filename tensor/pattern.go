// Copyright 2025 Strata Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/strata-ml/strata/internal/pattern"

// Pattern-level helpers re-exported for callers that work on metadata
// without tensor handles.

// NewPattern creates a Pattern from per-axis dims and strides plus a base
// element offset.
func NewPattern(dims, strides []int, offset int) (Pattern, error) {
	return pattern.New(dims, strides, offset)
}

// PatternFromShape builds the row-major contiguous Pattern for dims.
func PatternFromShape(dims []int) (Pattern, error) {
	return pattern.FromShape(dims)
}

// PadDims left-pads dims with 1s to n axes; the alignment helper underlying
// all broadcasting predicates.
func PadDims(dims []int, n int) []int {
	return pattern.PadDims(dims, n)
}

// BroadcastShape computes the combined broadcast shape of the given dims
// lists: the elementwise maximum after left-padding with 1s.
func BroadcastShape(dimsList ...[]int) ([]int, error) {
	return pattern.BroadcastShape(dimsList...)
}

// CanonicalizePattern reduces p to the canonical normal form for its
// addressed element set.
func CanonicalizePattern(p Pattern) Pattern {
	return pattern.Canonicalize(p)
}

// CompressPatterns jointly reduces a batch of Patterns to the minimal axis
// count expressing their combined broadcast structure.
func CompressPatterns(ps []Pattern) []Pattern {
	return pattern.Compress(ps)
}
