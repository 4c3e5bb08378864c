package ops

import "github.com/ab-obi/tf-models/internal/tensor"

// SumOp represents a full reduction of a tensor to a scalar.
//
// Every input element contributes to the sum with weight 1, so the
// backward pass is the scalar output gradient broadcast over the
// input shape.
type SumOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor // [1]
}

// NewSumOp creates a sum operation record.
func NewSumOp(input, output *tensor.RawTensor) *SumOp {
	return &SumOp{input: input, output: output}
}

// Backward broadcasts the scalar gradient over the input shape.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grad := zerosLike(op.input)
	g := outputGrad.AsFloat32()[0]
	data := grad.AsFloat32()
	for i := range data {
		data[i] = g
	}
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *SumOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the scalar sum tensor.
func (op *SumOp) Output() *tensor.RawTensor {
	return op.output
}
