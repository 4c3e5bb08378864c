// Package optim implements optimization algorithms and learning rate
// schedules for training neural networks.
//
// This package provides:
//   - Optimizer interface: base interface for all optimizers
//   - SGD: stochastic gradient descent with momentum
//   - Adam: adaptive moment estimation
//   - Schedule: per-epoch learning rate schedules
//
// Example usage:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{
//	    LR: 0.01,
//	}, backend)
//
//	for epoch := range epochs {
//	    backend.Tape().StartRecording()
//	    output := model.Forward(input)
//	    loss := criterion.Forward(output, targets)
//	    grads := autodiff.Backward(loss, backend)
//	    optimizer.Step(grads)
//	    optimizer.ZeroGrad()
//	    backend.Tape().Clear()
//	}
package optim

import (
	"github.com/ab-obi/tf-models/internal/nn"
	"github.com/ab-obi/tf-models/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
// It also satisfies nn.OptimizerState, so any optimizer can be written
// into a checkpoint.
type Optimizer interface {
	// Step applies gradient updates to all parameters. The gradient map
	// comes from autodiff.Backward and maps parameter RawTensors to
	// their gradients.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad clears all parameter gradients. Call before each backward
	// pass to prevent accumulation across iterations.
	ZeroGrad()

	// Name returns the optimizer type identifier ("SGD", "Adam").
	Name() string

	// GetLR returns the current learning rate.
	GetLR() float32

	// SetLR updates the learning rate. Schedules call this once per epoch.
	SetLR(lr float32)

	// StateDict returns optimizer state (momentum buffers, Adam moments)
	// for serialization.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict restores previously saved optimizer state.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}

// getGradient retrieves the gradient for a parameter, or nil if the
// parameter was not part of the recorded computation.
func getGradient[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) *tensor.RawTensor {
	if param == nil {
		return nil
	}
	return grads[param.Tensor().Raw()]
}
