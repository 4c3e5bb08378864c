package nn

import (
	"fmt"

	"github.com/ab-obi/tf-models/internal/autodiff/ops"
	"github.com/ab-obi/tf-models/internal/tensor"
)

// crossEntropyBackend is implemented by backends with a fused
// softmax-cross-entropy kernel that participates in gradient recording.
type crossEntropyBackend interface {
	CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor
}

// CrossEntropyLoss computes softmax cross-entropy between raw logits and
// integer class targets.
//
// When the backend records gradients (autodiff.AutodiffBackend), the fused
// kernel is used and the returned loss is differentiable. On a plain backend
// the loss value is computed directly and Backward is unavailable.
//
// Example:
//
//	criterion := nn.NewCrossEntropyLoss(backend)
//	loss := criterion.Forward(logits, targets)
//	autodiff.Backward(loss, backend)
type CrossEntropyLoss[B tensor.Backend] struct {
	backend B
}

// NewCrossEntropyLoss creates a cross-entropy loss function.
func NewCrossEntropyLoss[B tensor.Backend](backend B) *CrossEntropyLoss[B] {
	return &CrossEntropyLoss[B]{backend: backend}
}

// Forward computes the scalar loss (shape [1]). logits must be
// [batch, classes], targets must be [batch] of Int32 class indices.
func (c *CrossEntropyLoss[B]) Forward(logits *tensor.Tensor[float32, B], targets *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	validateCrossEntropyInputs(logits.Raw(), targets.Raw())

	if ce, ok := any(c.backend).(crossEntropyBackend); ok {
		raw := ce.CrossEntropy(logits.Raw(), targets.Raw())
		return tensor.New[float32](raw, c.backend)
	}

	loss := ops.ComputeCrossEntropy(logits.Raw(), targets.Raw())
	return tensor.Scalar(loss, c.backend)
}

func validateCrossEntropyInputs(logits, targets *tensor.RawTensor) {
	if len(logits.Shape()) != 2 {
		panic(fmt.Sprintf("CrossEntropyLoss: logits must be 2D [batch, classes], got %v", logits.Shape()))
	}
	if len(targets.Shape()) != 1 || targets.Shape()[0] != logits.Shape()[0] {
		panic(fmt.Sprintf("CrossEntropyLoss: targets must be [batch=%d], got %v", logits.Shape()[0], targets.Shape()))
	}
	if targets.DType() != tensor.Int32 {
		panic("CrossEntropyLoss: targets must be Int32 class indices")
	}
}

// Accuracy returns the fraction of rows where the argmax of logits equals
// the target class.
func Accuracy[B tensor.Backend](logits *tensor.Tensor[float32, B], targets *tensor.Tensor[int32, B]) float32 {
	validateCrossEntropyInputs(logits.Raw(), targets.Raw())

	predicted := logits.Backend().Argmax(logits.Raw(), -1)
	pred := predicted.AsInt32()
	want := targets.Raw().AsInt32()

	correct := 0
	for i := range want {
		if pred[i] == want[i] {
			correct++
		}
	}
	return float32(correct) / float32(len(want))
}
