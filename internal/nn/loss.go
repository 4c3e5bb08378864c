package nn

import (
	"github.com/ab-obi/tf-models/internal/tensor"
)

// MSELoss computes mean squared error: mean((predictions - targets)²).
// Used for regression objectives; classification search spaces use
// CrossEntropyLoss.
type MSELoss[B tensor.Backend] struct {
	backend B
}

// NewMSELoss creates an MSE loss function.
func NewMSELoss[B tensor.Backend](backend B) *MSELoss[B] {
	return &MSELoss[B]{backend: backend}
}

// Forward computes the scalar MSE loss (shape [1]).
func (m *MSELoss[B]) Forward(predictions, targets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic("MSELoss: predictions and targets must have the same shape")
	}

	diff := predictions.Sub(targets)
	squared := diff.Mul(diff)

	// Sub, Mul, Sum and Div are all recorded ops, so on an autodiff
	// backend the loss is differentiable end to end.
	n := tensor.Scalar(float32(squared.NumElements()), m.backend)
	return squared.Sum().Div(n)
}
