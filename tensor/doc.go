// Copyright 2025 Strata Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor is the public API of the Strata library: shape/stride
// Patterns with NumPy/PyTorch-style broadcasting, aliasing and overlap
// detection between views of shared storage, and debug-mode memory hazard
// tracking for operation implementations.
//
// # Overview
//
// Strata does not execute math and does not schedule operations. It answers
// three questions for the layers that do:
//
//   - May these tensors legally participate in one operation together
//     (Compatible, Broadcastable, SameDim)?
//   - Do these views alias the same memory (Overlap, IsWhole)?
//   - Did anything mutate this region since I last looked (the hazard
//     tracker: RecordUse, RegisterChange, CheckUnchangedSince)?
//
// # Basic usage
//
//	a, _ := tensor.New([]int{3, 1}, tensor.Float64, nil)
//	b, _ := tensor.New([]int{1, 4}, tensor.Float64, nil)
//
//	tensor.Compatible(a, b)            // true: same dtype, same device
//	tensor.Broadcastable(a, b, false)  // true: [3,1] vs [1,4]
//	tensor.SameDim(a, b)               // false
//
// # Debug instrumentation
//
// Operation implementations declare their access pattern through
// DebugNormalOp before touching tensor memory:
//
//	tensor.SetDebugMode(true)
//	tensor.DebugNormalOp3(a, tensor.Read, b, tensor.Read, out, tensor.Write)
//
// With debug mode off (the default) every instrumentation call returns
// immediately with no observable effect.
package tensor
