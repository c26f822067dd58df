// Copyright 2025 Strata Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the host-memory allocator and reference elementwise
// kernels for Strata tensors.
package cpu

import (
	internalcpu "github.com/strata-ml/strata/internal/backend/cpu"
)

// Backend executes elementwise kernels over host-resident tensors, following
// the instrumentation contract (DebugNormalOp before memory access).
type Backend = internalcpu.Backend

// Allocator realizes storage regions in host memory.
type Allocator = internalcpu.Allocator

// New creates a CPU backend with default parallelism.
//
// Example:
//
//	backend := cpu.New()
//	out, _ := tensor.New([]int{2, 3}, tensor.Float64, backend.Allocator())
//	err := backend.Add(a, b, out)
func New() *Backend {
	return internalcpu.New()
}
