package nn

import (
	"fmt"
	"math/rand"

	"github.com/ab-obi/tf-models/internal/tensor"
)

// Dropout randomly zeroes activations during training with probability
// Rate, scaling survivors by 1/(1-Rate) so the expected activation is
// unchanged (inverted dropout). In evaluation mode it is the identity.
//
// The mask is applied through the backend's Mul, so the gradient is
// masked identically on the backward pass.
type Dropout[B tensor.Backend] struct {
	rate     float32
	training bool
	rng      *rand.Rand
}

// NewDropout creates a Dropout module. Rate must be in [0, 1).
func NewDropout[B tensor.Backend](rate float32, rng *rand.Rand) *Dropout[B] {
	if rate < 0 || rate >= 1 {
		panic(fmt.Sprintf("Dropout: rate must be in [0, 1), got %v", rate))
	}
	return &Dropout[B]{rate: rate, training: true, rng: rng}
}

// SetTraining toggles between training and evaluation behavior.
func (d *Dropout[B]) SetTraining(training bool) {
	d.training = training
}

// Forward applies the dropout mask in training mode.
func (d *Dropout[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !d.training || d.rate == 0 {
		return input
	}

	backend := input.Backend()
	mask := tensor.Zeros[float32](input.Shape(), backend)
	maskData := mask.Data()
	scale := 1 / (1 - d.rate)
	for i := range maskData {
		if d.rng.Float32() >= d.rate {
			maskData[i] = scale
		}
	}

	return input.Mul(mask)
}

// Parameters returns nil; Dropout has no trainable parameters.
func (d *Dropout[B]) Parameters() []*Parameter[B] { return nil }

// StateDict returns an empty map.
func (d *Dropout[B]) StateDict() map[string]*tensor.RawTensor { return map[string]*tensor.RawTensor{} }

// LoadStateDict is a no-op.
func (d *Dropout[B]) LoadStateDict(map[string]*tensor.RawTensor) error { return nil }
