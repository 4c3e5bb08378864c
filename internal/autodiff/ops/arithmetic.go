package ops

import "github.com/ab-obi/tf-models/internal/tensor"

// Arithmetic kind discriminates the four element-wise binary operations.
type arithmeticKind int

const (
	kindAdd arithmeticKind = iota
	kindSub
	kindMul
	kindDiv
)

// ArithmeticOp represents an element-wise binary operation with
// broadcasting: output = a (op) b.
//
// Backward rules:
//
//	add: grad_a = g,            grad_b = g
//	sub: grad_a = g,            grad_b = -g
//	mul: grad_a = g * b,        grad_b = g * a
//	div: grad_a = g / b,        grad_b = -g * a / b²
//
// When broadcasting happened in the forward pass, the raw gradients are
// reduced back to the input shapes.
type ArithmeticOp struct {
	kind   arithmeticKind
	inputs []*tensor.RawTensor // [a, b]
	output *tensor.RawTensor
}

// NewAddOp creates an addition operation record.
func NewAddOp(a, b, output *tensor.RawTensor) *ArithmeticOp {
	return &ArithmeticOp{kind: kindAdd, inputs: []*tensor.RawTensor{a, b}, output: output}
}

// NewSubOp creates a subtraction operation record.
func NewSubOp(a, b, output *tensor.RawTensor) *ArithmeticOp {
	return &ArithmeticOp{kind: kindSub, inputs: []*tensor.RawTensor{a, b}, output: output}
}

// NewMulOp creates a multiplication operation record.
func NewMulOp(a, b, output *tensor.RawTensor) *ArithmeticOp {
	return &ArithmeticOp{kind: kindMul, inputs: []*tensor.RawTensor{a, b}, output: output}
}

// NewDivOp creates a division operation record.
func NewDivOp(a, b, output *tensor.RawTensor) *ArithmeticOp {
	return &ArithmeticOp{kind: kindDiv, inputs: []*tensor.RawTensor{a, b}, output: output}
}

// Backward computes input gradients for the operation.
func (op *ArithmeticOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]

	var gradA, gradB *tensor.RawTensor
	switch op.kind {
	case kindAdd:
		gradA = outputGrad
		gradB = outputGrad
	case kindSub:
		gradA = outputGrad
		gradB = negate(outputGrad)
	case kindMul:
		gradA = backend.Mul(outputGrad, b)
		gradB = backend.Mul(outputGrad, a)
	case kindDiv:
		gradA = backend.Div(outputGrad, b)
		// grad_b = -g * a / b² = -(g * a) / (b * b)
		gradB = negate(backend.Div(backend.Mul(outputGrad, a), backend.Mul(b, b)))
	}

	return []*tensor.RawTensor{
		reduceBroadcast(gradA, a.Shape(), backend),
		reduceBroadcast(gradB, b.Shape(), backend),
	}
}

// Inputs returns the input tensors [a, b].
func (op *ArithmeticOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor.
func (op *ArithmeticOp) Output() *tensor.RawTensor {
	return op.output
}

// negate returns -t without going through the backend (no need to
// record anything during backward).
func negate(t *tensor.RawTensor) *tensor.RawTensor {
	out := zerosLike(t)
	in, data := t.AsFloat32(), out.AsFloat32()
	for i, v := range in {
		data[i] = -v
	}
	return out
}
