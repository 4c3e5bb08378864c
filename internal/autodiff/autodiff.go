// Package autodiff implements reverse-mode automatic differentiation
// using the decorator pattern.
//
// AutodiffBackend wraps any tensor.Backend and records operations on a
// GradientTape during the forward pass. Walking the tape in reverse
// applies the chain rule and accumulates a gradient for every tensor
// that participated in the computation.
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	logits := model.Forward(input)
//	loss := backend.CrossEntropy(logits.Raw(), targets.Raw())
//	grads := backend.Tape().Backward(ones, backend)
package autodiff

import (
	"github.com/ab-obi/tf-models/internal/autodiff/ops"
	"github.com/ab-obi/tf-models/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds gradient tracking.
// It implements tensor.Backend itself, so models built against the
// interface are differentiable without modification.
type AutodiffBackend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New creates an AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{inner: backend, tape: NewGradientTape()}
}

// Tape returns the gradient tape for recording control.
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Add(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewAddOp(x, y, result))
	}
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sub(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSubOp(x, y, result))
	}
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Mul(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMulOp(x, y, result))
	}
	return result
}

// Div performs element-wise division and records the operation.
func (b *AutodiffBackend[B]) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Div(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewDivOp(x, y, result))
	}
	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *AutodiffBackend[B]) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.MatMul(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMatMulOp(x, y, result))
	}
	return result
}

// Reshape reshapes a tensor and records the operation, so gradients
// reach parameters that were reshaped for broadcasting (e.g. a bias
// viewed as [1, N]).
func (b *AutodiffBackend[B]) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result := b.inner.Reshape(t, newShape)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewReshapeOp(t, result))
	}
	return result
}

// Transpose permutes dimensions and records the operation. The backend
// copies data for a transpose, so without the record the original
// tensor would never receive a gradient.
func (b *AutodiffBackend[B]) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	result := b.inner.Transpose(t, axes...)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewTransposeOp(t, result, axes))
	}
	return result
}

// Softmax computes softmax without recording. It is only used for
// inference-side probability readout; training goes through the fused
// CrossEntropy operation.
func (b *AutodiffBackend[B]) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.inner.Softmax(x, dim)
}

// Sum reduces to a scalar and records the operation, so losses built
// from a reduction (e.g. MSE) stay differentiable.
func (b *AutodiffBackend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sum(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSumOp(x, result))
	}
	return result
}

// Argmax computes indices of maxima without recording (not differentiable).
func (b *AutodiffBackend[B]) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.inner.Argmax(x, dim)
}

// reluCapable matches inner backends with a native ReLU kernel.
type reluCapable interface {
	ReLU(*tensor.RawTensor) *tensor.RawTensor
}

// sigmoidCapable matches inner backends with a native sigmoid kernel.
type sigmoidCapable interface {
	Sigmoid(*tensor.RawTensor) *tensor.RawTensor
}

// tanhCapable matches inner backends with a native tanh kernel.
type tanhCapable interface {
	Tanh(*tensor.RawTensor) *tensor.RawTensor
}

// ReLU applies max(0, x) and records the operation.
func (b *AutodiffBackend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	inner, ok := any(b.inner).(reluCapable)
	if !ok {
		panic("autodiff: inner backend does not implement ReLU")
	}
	result := inner.ReLU(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewReLUOp(x, result))
	}
	return result
}

// Sigmoid applies σ(x) and records the operation.
func (b *AutodiffBackend[B]) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	inner, ok := any(b.inner).(sigmoidCapable)
	if !ok {
		panic("autodiff: inner backend does not implement Sigmoid")
	}
	result := inner.Sigmoid(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSigmoidOp(x, result))
	}
	return result
}

// Tanh applies tanh(x) and records the operation.
func (b *AutodiffBackend[B]) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	inner, ok := any(b.inner).(tanhCapable)
	if !ok {
		panic("autodiff: inner backend does not implement Tanh")
	}
	result := inner.Tanh(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewTanhOp(x, result))
	}
	return result
}

// CrossEntropy computes mean negative log-likelihood over a batch of
// logits and records the fused operation for the backward pass.
//
// logits: [batch, classes] float32, targets: [batch] int32.
// Returns a shape-[1] loss tensor.
func (b *AutodiffBackend[B]) CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	loss := ops.ComputeCrossEntropy(logits, targets)

	out, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, b.Device())
	if err != nil {
		panic(err)
	}
	out.AsFloat32()[0] = loss

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewCrossEntropyOp(logits, targets, out))
	}
	return out
}
