package cpu

import (
	"fmt"

	"github.com/ab-obi/tf-models/internal/parallel"
	"github.com/ab-obi/tf-models/internal/tensor"
)

// Add performs element-wise addition with broadcasting.
func (b *CPUBackend) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp(x, y, func(a, c float32) float32 { return a + c })
}

// Sub performs element-wise subtraction with broadcasting.
func (b *CPUBackend) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp(x, y, func(a, c float32) float32 { return a - c })
}

// Mul performs element-wise multiplication with broadcasting.
func (b *CPUBackend) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp(x, y, func(a, c float32) float32 { return a * c })
}

// Div performs element-wise division with broadcasting.
// Division by zero follows IEEE 754 float semantics (Inf/NaN).
func (b *CPUBackend) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp(x, y, func(a, c float32) float32 { return a / c })
}

// binaryOp applies op element-wise, broadcasting the smaller operand.
func (b *CPUBackend) binaryOp(x, y *tensor.RawTensor, op func(a, c float32) float32) *tensor.RawTensor {
	if x.DType() != tensor.Float32 || y.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu: binary op requires float32 operands, got %s and %s", x.DType(), y.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(x.Shape(), y.Shape())
	if err != nil {
		panic(fmt.Sprintf("cpu: %v", err))
	}

	out := mustNewRaw(outShape, tensor.Float32)
	xData, yData, outData := x.AsFloat32(), y.AsFloat32(), out.AsFloat32()

	if !needsBroadcast {
		parallel.For(len(outData), func(i int) {
			outData[i] = op(xData[i], yData[i])
		}, b.par)
		return out
	}

	// Scalar fast paths: a shape-[1] operand pairs with every element.
	if x.NumElements() == 1 {
		s := xData[0]
		parallel.For(len(outData), func(i int) {
			outData[i] = op(s, yData[i])
		}, b.par)
		return out
	}
	if y.NumElements() == 1 {
		s := yData[0]
		parallel.For(len(outData), func(i int) {
			outData[i] = op(xData[i], s)
		}, b.par)
		return out
	}

	// General case: map each output index to the broadcast source index
	// in both operands via strides.
	xIdx := broadcastStrides(x.Shape(), outShape)
	yIdx := broadcastStrides(y.Shape(), outShape)
	outStrides := outShape.ComputeStrides()

	parallel.For(len(outData), func(i int) {
		xi, yi := 0, 0
		rem := i
		for d := 0; d < len(outShape); d++ {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			xi += coord * xIdx[d]
			yi += coord * yIdx[d]
		}
		outData[i] = op(xData[xi], yData[yi])
	}, b.par)

	return out
}

// broadcastStrides returns per-output-dimension strides into a tensor of
// shape `in` broadcast to `out`. Dimensions where `in` is 1 (or missing)
// get stride 0 so every output coordinate maps to the single element.
func broadcastStrides(in, out tensor.Shape) []int {
	inStrides := in.ComputeStrides()
	result := make([]int, len(out))
	offset := len(out) - len(in)
	for d := range out {
		inDim := d - offset
		if inDim < 0 || in[inDim] == 1 {
			result[d] = 0
		} else {
			result[d] = inStrides[inDim]
		}
	}
	return result
}
