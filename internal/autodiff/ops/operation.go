// Package ops defines the differentiable operations recorded on the
// gradient tape.
//
// Each operation keeps references to its forward-pass inputs and output
// and knows how to turn an output gradient into input gradients:
//   - ArithmeticOp: add/sub/mul/div with broadcast-aware reduction
//   - MatMulOp: d(A@B)/dA = grad@B^T, d(A@B)/dB = A^T@grad
//   - TransposeOp, ReshapeOp: gradient flows through the inverse view
//   - ReLUOp, SigmoidOp, TanhOp: element-wise activation gradients
//   - CrossEntropyOp: fused softmax + NLL gradient
package ops

import "github.com/ab-obi/tf-models/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for the inputs given the output gradient.
	// The returned slice matches Inputs() positionally; a nil entry means
	// no gradient flows to that input.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors of this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
