// Package nn implements the neural network building blocks used by the
// tuner's model builders.
//
// This package provides:
//   - Module interface: the base interface for all network components
//   - Parameter: trainable tensors with gradient bookkeeping
//   - Linear: fully connected layer
//   - Activations: ReLU, Sigmoid, Tanh
//   - Dropout: inverted dropout regularization
//   - Loss functions: CrossEntropyLoss, MSELoss
//   - Sequential: container for stacking layers
//
// Design follows the PyTorch nn.Module shape, adapted for Go generics.
package nn

import (
	"github.com/ab-obi/tf-models/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules compose into architectures:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(4, units, rng, backend),
//	    nn.NewReLU[B](),
//	    nn.NewLinear(units, 3, rng, backend),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the module's output for the given input.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters, including those of
	// nested modules. Modules without parameters return nil.
	Parameters() []*Parameter[B]

	// StateDict returns a map of parameter names to raw tensors for
	// serialization.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict restores parameters from a state dictionary.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}
