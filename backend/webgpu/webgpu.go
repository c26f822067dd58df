//go:build windows

// Copyright 2025 Strata Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU storage allocator for Strata tensors.
//
// Storage on the WebGPU device realizes its region as a GPU buffer with
// staging-buffer readback for host access. The pattern and hazard layers are
// device-agnostic; only the region lifecycle differs.
package webgpu

import (
	internalwebgpu "github.com/strata-ml/strata/internal/backend/webgpu"
)

// Allocator realizes storage regions in GPU memory via WebGPU.
type Allocator = internalwebgpu.Allocator

// New creates a WebGPU allocator. Returns an error if WebGPU is not
// available or initialization fails.
//
// Example:
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Release()
//	t, _ := tensor.New([]int{1024}, tensor.Float32, gpu)
func New() (*Allocator, error) {
	return internalwebgpu.New()
}
