// Copyright 2025 tf-models Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensor operations.
//
// The package defines core types for type-safe tensor math:
//   - Tensor[T, B]: high-level generic tensor
//   - RawTensor: untyped tensor buffer for advanced use cases
//   - Backend: interface for device-specific compute implementations
//   - Shape, DataType, Device: core type definitions
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)
package tensor

import (
	"math/rand"

	"github.com/ab-obi/tf-models/internal/tensor"
)

// DType is a constraint for tensor element types: float32 or int32.
type DType = tensor.DType

// DataType identifies the runtime element type of a RawTensor.
type DataType = tensor.DataType

// Supported data types.
const (
	Float32 = tensor.Float32
	Int32   = tensor.Int32
)

// Shape describes tensor dimensions.
type Shape = tensor.Shape

// Device identifies where tensor data lives.
type Device = tensor.Device

// CPU is the (only) supported device.
const CPU = tensor.CPU

// RawTensor is an untyped tensor buffer.
type RawTensor = tensor.RawTensor

// Backend is the compute interface tensors run on.
type Backend = tensor.Backend

// Tensor is a generic tensor with element type T on backend B.
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// New creates a Tensor from a RawTensor and backend.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// NewRaw allocates an untyped tensor buffer.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// FromSlice creates a tensor from a Go slice. The slice is copied.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice(data, shape, b)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T](shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Ones[T](shape, b)
}

// Full creates a tensor filled with value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full(shape, value, b)
}

// Scalar creates a shape-[1] tensor holding value.
func Scalar[T DType, B Backend](value T, b B) *Tensor[T, B] {
	return tensor.Scalar(value, b)
}

// Randn creates a float32 tensor of standard normal samples drawn from rng.
func Randn[B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[float32, B] {
	return tensor.Randn(shape, rng, b)
}

// Rand creates a float32 tensor of uniform [0, 1) samples drawn from rng.
func Rand[B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[float32, B] {
	return tensor.Rand(shape, rng, b)
}

// BroadcastShapes computes the NumPy-style broadcast of two shapes.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
