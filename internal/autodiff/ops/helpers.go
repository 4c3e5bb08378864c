package ops

import (
	"fmt"

	"github.com/ab-obi/tf-models/internal/tensor"
)

// reduceBroadcast reduces a gradient tensor to the shape of a forward
// input. Required whenever broadcasting happened in the forward pass:
// the gradient must be summed along every broadcast dimension.
//
// Example: bias [1, N] added to activations [M, N], where the bias gradient
// is the column sum of the [M, N] output gradient.
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()
	if gradShape.Equal(targetShape) {
		return grad
	}

	// Sum away extra leading dimensions first.
	result := grad
	for len(result.Shape()) > len(targetShape) {
		result = sumAlongDim(result, 0, false)
	}

	// Then sum dimensions where the target is 1.
	for d := 0; d < len(targetShape); d++ {
		if targetShape[d] == 1 && result.Shape()[d] > 1 {
			result = sumAlongDim(result, d, true)
		}
	}

	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}
	return result
}

// sumAlongDim sums a float32 tensor along one dimension.
// With keepDim the summed dimension stays as size 1, otherwise it is
// removed from the shape.
func sumAlongDim(t *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := t.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("ops: sumAlongDim dimension %d out of range for shape %v", dim, shape))
	}

	outShape := shape.Clone()
	outShape[dim] = 1

	out, err := tensor.NewRaw(outShape, tensor.Float32, t.Device())
	if err != nil {
		panic(fmt.Sprintf("ops: sumAlongDim: %v", err))
	}

	data := t.AsFloat32()
	outData := out.AsFloat32()

	strides := shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()

	for i := range data {
		rem := i
		outIdx := 0
		for d := 0; d < len(shape); d++ {
			coord := rem / strides[d]
			rem %= strides[d]
			if d == dim {
				coord = 0
			}
			outIdx += coord * outStrides[d]
		}
		outData[outIdx] += data[i]
	}

	if !keepDim {
		squeezed := append(tensor.Shape{}, shape[:dim]...)
		squeezed = append(squeezed, shape[dim+1:]...)
		if len(squeezed) == 0 {
			squeezed = tensor.Shape{1}
		}
		view, err := out.View(squeezed)
		if err != nil {
			panic(fmt.Sprintf("ops: sumAlongDim squeeze: %v", err))
		}
		return view
	}
	return out
}

// zerosLike allocates a zero gradient with the same shape as t.
func zerosLike(t *tensor.RawTensor) *tensor.RawTensor {
	out, err := tensor.NewRaw(t.Shape(), tensor.Float32, t.Device())
	if err != nil {
		panic(fmt.Sprintf("ops: zerosLike: %v", err))
	}
	return out
}
