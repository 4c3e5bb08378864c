package cpu

import (
	"fmt"

	"github.com/ab-obi/tf-models/internal/parallel"
	"github.com/ab-obi/tf-models/internal/tensor"
)

// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] -> [M, N].
// Rows of the result are computed in parallel; the inner loops run in
// ikj order so the innermost accesses are contiguous.
func (b *CPUBackend) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	xShape, yShape := x.Shape(), y.Shape()
	if len(xShape) != 2 || len(yShape) != 2 {
		panic(fmt.Sprintf("cpu: MatMul requires 2D tensors, got %v and %v", xShape, yShape))
	}
	if xShape[1] != yShape[0] {
		panic(fmt.Sprintf("cpu: MatMul dimension mismatch: %v @ %v", xShape, yShape))
	}

	m, k, n := xShape[0], xShape[1], yShape[1]
	out := mustNewRaw(tensor.Shape{m, n}, tensor.Float32)

	xData, yData, outData := x.AsFloat32(), y.AsFloat32(), out.AsFloat32()

	cfg := b.par
	cfg.MinChunkSize = 1 // A row of matmul is already substantial work.

	parallel.For(m, func(i int) {
		rowOut := outData[i*n : (i+1)*n]
		rowX := xData[i*k : (i+1)*k]
		for kk := 0; kk < k; kk++ {
			a := rowX[kk]
			if a == 0 {
				continue
			}
			rowY := yData[kk*n : (kk+1)*n]
			for j := 0; j < n; j++ {
				rowOut[j] += a * rowY[j]
			}
		}
	}, cfg)

	return out
}

// Reshape returns a view of the tensor under a new shape.
func (b *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	view, err := t.View(newShape)
	if err != nil {
		panic(fmt.Sprintf("cpu: Reshape: %v", err))
	}
	return view
}

// Transpose permutes the tensor's dimensions, copying data into the new
// layout. With no axes given, all dimensions are reversed.
func (b *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("cpu: Transpose expects %d axes, got %d", ndim, len(axes)))
	}

	outShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("cpu: Transpose axis %d out of range for shape %v", ax, shape))
		}
		outShape[i] = shape[ax]
	}

	out := mustNewRaw(outShape, t.DType())

	switch t.DType() {
	case tensor.Float32:
		transposeCopy(t.AsFloat32(), out.AsFloat32(), shape, outShape, axes)
	case tensor.Int32:
		transposeCopy(t.AsInt32(), out.AsInt32(), shape, outShape, axes)
	default:
		panic(fmt.Sprintf("cpu: Transpose unsupported dtype %s", t.DType()))
	}

	return out
}

func transposeCopy[T float32 | int32](in, out []T, inShape, outShape tensor.Shape, axes []int) {
	inStrides := inShape.ComputeStrides()
	outStrides := outShape.ComputeStrides()

	for i := range out {
		// Decompose output index into coordinates, then map back through
		// the axis permutation to the input index.
		rem := i
		inIdx := 0
		for d := 0; d < len(outShape); d++ {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			inIdx += coord * inStrides[axes[d]]
		}
		out[i] = in[inIdx]
	}
}
