// Copyright 2025 tf-models Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the CPU compute backend.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
package cpu

import "github.com/ab-obi/tf-models/internal/backend/cpu"

// CPUBackend executes tensor operations on the host CPU, parallelized
// across physical cores.
type CPUBackend = cpu.CPUBackend

// New creates a CPU backend with parallelism enabled.
func New() *CPUBackend {
	return cpu.New()
}

// NewSequential creates a CPU backend with parallelism disabled, which
// keeps results bit-reproducible across machines.
func NewSequential() *CPUBackend {
	return cpu.NewSequential()
}
