package ops

import "github.com/ab-obi/tf-models/internal/tensor"

// ReLUOp represents a ReLU activation: output = max(0, x).
//
// d(ReLU(x))/dx is 1 where x > 0 and 0 elsewhere, so the backward pass
// masks the output gradient by the sign of the input.
type ReLUOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewReLUOp creates a ReLU operation record.
func NewReLUOp(input, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{input: input, output: output}
}

// Backward masks the output gradient by input > 0.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grad := zerosLike(op.input)
	in := op.input.AsFloat32()
	g := outputGrad.AsFloat32()
	out := grad.AsFloat32()
	for i, v := range in {
		if v > 0 {
			out[i] = g[i]
		}
	}
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *ReLUOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *ReLUOp) Output() *tensor.RawTensor {
	return op.output
}

// SigmoidOp represents a sigmoid activation: output = σ(x).
//
// dσ/dx = σ(x) * (1 - σ(x)); the forward output is reused so the
// backward pass needs no exponentials.
type SigmoidOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSigmoidOp creates a sigmoid operation record.
func NewSigmoidOp(input, output *tensor.RawTensor) *SigmoidOp {
	return &SigmoidOp{input: input, output: output}
}

// Backward computes grad = g * σ * (1 - σ).
func (op *SigmoidOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grad := zerosLike(op.input)
	s := op.output.AsFloat32()
	g := outputGrad.AsFloat32()
	out := grad.AsFloat32()
	for i := range out {
		out[i] = g[i] * s[i] * (1 - s[i])
	}
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *SigmoidOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *SigmoidOp) Output() *tensor.RawTensor {
	return op.output
}

// TanhOp represents a tanh activation: output = tanh(x).
//
// d(tanh x)/dx = 1 - tanh²(x).
type TanhOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewTanhOp creates a tanh operation record.
func NewTanhOp(input, output *tensor.RawTensor) *TanhOp {
	return &TanhOp{input: input, output: output}
}

// Backward computes grad = g * (1 - tanh²).
func (op *TanhOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grad := zerosLike(op.input)
	y := op.output.AsFloat32()
	g := outputGrad.AsFloat32()
	out := grad.AsFloat32()
	for i := range out {
		out[i] = g[i] * (1 - y[i]*y[i])
	}
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *TanhOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *TanhOp) Output() *tensor.RawTensor {
	return op.output
}
