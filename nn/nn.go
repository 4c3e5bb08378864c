// Copyright 2025 tf-models Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for neural network modules: layers,
// activations, losses and checkpoints.
package nn

import (
	"math/rand"

	"github.com/ab-obi/tf-models/internal/nn"
	"github.com/ab-obi/tf-models/internal/tensor"
)

// Module is the common interface of all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter is a trainable parameter.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a named parameter wrapping t.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Layers

// Linear is a fully connected layer: y = x@W^T + b.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a linear layer with Xavier initialization drawn
// from rng.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	layer := nn.NewLinear(8, 64, rng, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, rng *rand.Rand, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, rng, backend)
}

// Sequential chains modules, feeding each output into the next.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a sequential container over modules.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Dropout randomly zeroes activations during training.
type Dropout[B tensor.Backend] = nn.Dropout[B]

// NewDropout creates a dropout layer with the given drop rate.
func NewDropout[B tensor.Backend](rate float32, rng *rand.Rand) *Dropout[B] {
	return nn.NewDropout[B](rate, rng)
}

// Activations

// ReLU is the rectified linear unit activation.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Sigmoid is the logistic activation.
type Sigmoid[B tensor.Backend] = nn.Sigmoid[B]

// NewSigmoid creates a sigmoid activation module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return nn.NewSigmoid[B]()
}

// Tanh is the hyperbolic tangent activation.
type Tanh[B tensor.Backend] = nn.Tanh[B]

// NewTanh creates a tanh activation module.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return nn.NewTanh[B]()
}

// ActivationByName returns the activation module for "relu", "sigmoid"
// or "tanh".
func ActivationByName[B tensor.Backend](name string) (Module[B], bool) {
	return nn.ActivationByName[B](name)
}

// Losses

// CrossEntropyLoss computes softmax cross-entropy over logits.
type CrossEntropyLoss[B tensor.Backend] = nn.CrossEntropyLoss[B]

// NewCrossEntropyLoss creates a cross-entropy loss function.
func NewCrossEntropyLoss[B tensor.Backend](backend B) *CrossEntropyLoss[B] {
	return nn.NewCrossEntropyLoss(backend)
}

// MSELoss computes mean squared error.
type MSELoss[B tensor.Backend] = nn.MSELoss[B]

// NewMSELoss creates an MSE loss function.
func NewMSELoss[B tensor.Backend](backend B) *MSELoss[B] {
	return nn.NewMSELoss(backend)
}

// Accuracy returns the fraction of rows where argmax(logits) equals the
// target class.
func Accuracy[B tensor.Backend](logits *tensor.Tensor[float32, B], targets *tensor.Tensor[int32, B]) float32 {
	return nn.Accuracy(logits, targets)
}

// Checkpoints

// Checkpoint is a training state snapshot.
type Checkpoint[B tensor.Backend] = nn.Checkpoint[B]

// OptimizerState is an optimizer that can save and load its state.
type OptimizerState = nn.OptimizerState

// LoadCheckpoint restores a checkpoint into a pre-constructed model and
// optimizer.
func LoadCheckpoint[B tensor.Backend](path string, backend B, model Module[B], optimizer OptimizerState) (*Checkpoint[B], error) {
	return nn.LoadCheckpoint(path, backend, model, optimizer)
}
