// Copyright 2025 tf-models Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation via a
// gradient tape that records backend operations.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//
//	output := model.Forward(input)
//	loss := criterion.Forward(output, targets)
//	grads := autodiff.Backward(loss, backend)
//
//	optimizer.Step(grads)
package autodiff

import (
	"github.com/ab-obi/tf-models/internal/autodiff"
	"github.com/ab-obi/tf-models/internal/tensor"
)

// AutodiffBackend decorates a backend with gradient recording.
type AutodiffBackend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// GradientTape records operations for the backward pass.
type GradientTape = autodiff.GradientTape

// BackwardCapable is implemented by backends that own a gradient tape.
type BackwardCapable = autodiff.BackwardCapable

// New wraps a backend with gradient recording.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return autodiff.New(backend)
}

// Backward computes gradients of t with respect to every recorded input.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}
