package cpu

import (
	"fmt"

	"github.com/ab-obi/tf-models/internal/tensor"
)

// Sum reduces the tensor to a scalar sum with shape [1].
func (b *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu: Sum requires float32, got %s", x.DType()))
	}

	out := mustNewRaw(tensor.Shape{1}, tensor.Float32)

	var sum float32
	for _, v := range x.AsFloat32() {
		sum += v
	}
	out.AsFloat32()[0] = sum

	return out
}

// Argmax returns the index of the maximum value along the given
// dimension as an int32 tensor. Only the last dimension is supported,
// which covers class prediction from logits [batch, classes].
func (b *CPUBackend) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim != len(shape)-1 {
		panic(fmt.Sprintf("cpu: Argmax only supports the last dimension, got dim=%d for shape %v", dim, shape))
	}
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu: Argmax requires float32, got %s", x.DType()))
	}

	width := shape[len(shape)-1]
	rows := x.NumElements() / width

	outShape := shape[:len(shape)-1].Clone()
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}
	out := mustNewRaw(outShape, tensor.Int32)

	xData, outData := x.AsFloat32(), out.AsInt32()

	for r := 0; r < rows; r++ {
		row := xData[r*width : (r+1)*width]
		best := 0
		for i, v := range row[1:] {
			if v > row[best] {
				best = i + 1
			}
		}
		outData[r] = int32(best)
	}

	return out
}
