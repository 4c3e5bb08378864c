package cpu

import (
	"fmt"
	"math"

	"github.com/ab-obi/tf-models/internal/parallel"
	"github.com/ab-obi/tf-models/internal/tensor"
)

// ReLU applies max(0, x) element-wise.
func (b *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, func(v float32) float32 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Sigmoid applies 1 / (1 + exp(-x)) element-wise.
func (b *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, func(v float32) float32 {
		return float32(1.0 / (1.0 + math.Exp(float64(-v))))
	})
}

// Tanh applies the hyperbolic tangent element-wise.
func (b *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, func(v float32) float32 {
		return float32(math.Tanh(float64(v)))
	})
}

func (b *CPUBackend) unaryOp(x *tensor.RawTensor, op func(v float32) float32) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu: unary op requires float32, got %s", x.DType()))
	}

	out := mustNewRaw(x.Shape(), tensor.Float32)
	xData, outData := x.AsFloat32(), out.AsFloat32()

	parallel.For(len(outData), func(i int) {
		outData[i] = op(xData[i])
	}, b.par)

	return out
}

// Softmax computes softmax along the given dimension using the
// max-subtraction trick for numerical stability. Negative dim counts
// from the end (dim = -1 is the last dimension).
func (b *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim != len(shape)-1 {
		panic(fmt.Sprintf("cpu: Softmax only supports the last dimension, got dim=%d for shape %v", dim, shape))
	}
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu: Softmax requires float32, got %s", x.DType()))
	}

	out := mustNewRaw(shape, tensor.Float32)
	xData, outData := x.AsFloat32(), out.AsFloat32()

	width := shape[len(shape)-1]
	rows := x.NumElements() / width

	cfg := b.par
	cfg.MinChunkSize = 1

	parallel.For(rows, func(r int) {
		row := xData[r*width : (r+1)*width]
		outRow := outData[r*width : (r+1)*width]

		maxV := row[0]
		for _, v := range row[1:] {
			if v > maxV {
				maxV = v
			}
		}

		var sum float32
		for i, v := range row {
			e := float32(math.Exp(float64(v - maxV)))
			outRow[i] = e
			sum += e
		}
		for i := range outRow {
			outRow[i] /= sum
		}
	}, cfg)

	return out
}
