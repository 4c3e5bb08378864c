package optim

import (
	"fmt"

	"github.com/ab-obi/tf-models/internal/nn"
	"github.com/ab-obi/tf-models/internal/tensor"
)

// SGD implements stochastic gradient descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Example:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	}, backend)
type SGD[B tensor.Backend] struct {
	params     []*nn.Parameter[B]
	lr         float32
	momentum   float32
	velocities map[*nn.Parameter[B]]*tensor.Tensor[float32, B]
	backend    B
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR       float32 // learning rate (default: 0.01)
	Momentum float32 // momentum factor in [0, 1) (default: 0)
}

// NewSGD creates a new SGD optimizer over the given parameters.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], config SGDConfig, backend B) *SGD[B] {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD[B]{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*nn.Parameter[B]]*tensor.Tensor[float32, B]),
		backend:    backend,
	}
}

// Step performs a single optimization step. Parameters with no gradient
// in the map are skipped.
func (s *SGD[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, param := range s.params {
		grad := getGradient(param, grads)
		if grad == nil {
			continue
		}

		gradTensor := tensor.New[float32, B](grad, s.backend)
		if s.momentum == 0 {
			s.updateParameter(param, gradTensor)
		} else {
			s.updateParameterWithMomentum(param, gradTensor)
		}
	}
}

func (s *SGD[B]) updateParameter(param *nn.Parameter[B], grad *tensor.Tensor[float32, B]) {
	// param -= lr * grad
	lrTensor := tensor.Scalar(s.lr, s.backend)
	updated := param.Tensor().Sub(grad.Mul(lrTensor))
	copy(param.Tensor().Raw().AsFloat32(), updated.Raw().AsFloat32())
}

func (s *SGD[B]) updateParameterWithMomentum(param *nn.Parameter[B], grad *tensor.Tensor[float32, B]) {
	velocity, exists := s.velocities[param]
	if !exists {
		velocity = tensor.Zeros[float32](param.Tensor().Shape(), s.backend)
		s.velocities[param] = velocity
	}

	// velocity = momentum * velocity + grad
	momentumTensor := tensor.Scalar(s.momentum, s.backend)
	newVelocity := velocity.Mul(momentumTensor).Add(grad)
	copy(velocity.Raw().AsFloat32(), newVelocity.Raw().AsFloat32())

	// param -= lr * velocity
	lrTensor := tensor.Scalar(s.lr, s.backend)
	updated := param.Tensor().Sub(velocity.Mul(lrTensor))
	copy(param.Tensor().Raw().AsFloat32(), updated.Raw().AsFloat32())
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD[B]) ZeroGrad() {
	for _, param := range s.params {
		param.ZeroGrad()
	}
}

// Name returns "SGD".
func (s *SGD[B]) Name() string {
	return "SGD"
}

// GetLR returns the current learning rate.
func (s *SGD[B]) GetLR() float32 {
	return s.lr
}

// SetLR updates the learning rate. Used by schedules between epochs.
func (s *SGD[B]) SetLR(lr float32) {
	s.lr = lr
}

// StateDict exports velocity buffers keyed "velocity.{param_index}".
// Without momentum there is no state and the map is empty.
func (s *SGD[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	if s.momentum == 0 {
		return stateDict
	}

	for i, param := range s.params {
		velocity, exists := s.velocities[param]
		if !exists {
			continue
		}
		stateDict[fmt.Sprintf("velocity.%d", i)] = velocity.Raw()
	}
	return stateDict
}

// LoadStateDict restores velocity buffers. Missing velocities are
// initialized on the next Step.
func (s *SGD[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	if s.momentum == 0 {
		return nil
	}

	s.velocities = make(map[*nn.Parameter[B]]*tensor.Tensor[float32, B])
	for i, param := range s.params {
		raw, exists := stateDict[fmt.Sprintf("velocity.%d", i)]
		if !exists {
			continue
		}
		if !raw.Shape().Equal(param.Tensor().Shape()) {
			return fmt.Errorf("velocity shape mismatch for parameter %d: expected %v, got %v",
				i, param.Tensor().Shape(), raw.Shape())
		}
		// Copy rather than alias so the source state dict stays independent
		// of future Steps.
		velocity := tensor.Zeros[float32](param.Tensor().Shape(), s.backend)
		copy(velocity.Data(), raw.AsFloat32())
		s.velocities[param] = velocity
	}
	return nil
}
