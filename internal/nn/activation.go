package nn

import (
	"github.com/ab-obi/tf-models/internal/tensor"
)

// ReLUBackend is implemented by backends with a ReLU kernel.
type ReLUBackend interface {
	ReLU(*tensor.RawTensor) *tensor.RawTensor
}

// SigmoidBackend is implemented by backends with a sigmoid kernel.
type SigmoidBackend interface {
	Sigmoid(*tensor.RawTensor) *tensor.RawTensor
}

// TanhBackend is implemented by backends with a tanh kernel.
type TanhBackend interface {
	Tanh(*tensor.RawTensor) *tensor.RawTensor
}

// ReLU is a rectified linear activation module: f(x) = max(0, x).
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies ReLU element-wise.
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	rb, ok := any(backend).(ReLUBackend)
	if !ok {
		panic("ReLU: backend must implement the ReLU operation (use autodiff.New(cpu.New()))")
	}
	return tensor.New[float32, B](rb.ReLU(input.Raw()), backend)
}

// Parameters returns nil; ReLU has no trainable parameters.
func (r *ReLU[B]) Parameters() []*Parameter[B] { return nil }

// StateDict returns an empty map.
func (r *ReLU[B]) StateDict() map[string]*tensor.RawTensor { return map[string]*tensor.RawTensor{} }

// LoadStateDict is a no-op.
func (r *ReLU[B]) LoadStateDict(map[string]*tensor.RawTensor) error { return nil }

// Sigmoid is a sigmoid activation module: σ(x) = 1 / (1 + exp(-x)).
type Sigmoid[B tensor.Backend] struct{}

// NewSigmoid creates a Sigmoid activation module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return &Sigmoid[B]{}
}

// Forward applies sigmoid element-wise.
func (s *Sigmoid[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	sb, ok := any(backend).(SigmoidBackend)
	if !ok {
		panic("Sigmoid: backend must implement the Sigmoid operation (use autodiff.New(cpu.New()))")
	}
	return tensor.New[float32, B](sb.Sigmoid(input.Raw()), backend)
}

// Parameters returns nil; Sigmoid has no trainable parameters.
func (s *Sigmoid[B]) Parameters() []*Parameter[B] { return nil }

// StateDict returns an empty map.
func (s *Sigmoid[B]) StateDict() map[string]*tensor.RawTensor { return map[string]*tensor.RawTensor{} }

// LoadStateDict is a no-op.
func (s *Sigmoid[B]) LoadStateDict(map[string]*tensor.RawTensor) error { return nil }

// Tanh is a hyperbolic tangent activation module.
type Tanh[B tensor.Backend] struct{}

// NewTanh creates a Tanh activation module.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return &Tanh[B]{}
}

// Forward applies tanh element-wise.
func (t *Tanh[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	tb, ok := any(backend).(TanhBackend)
	if !ok {
		panic("Tanh: backend must implement the Tanh operation (use autodiff.New(cpu.New()))")
	}
	return tensor.New[float32, B](tb.Tanh(input.Raw()), backend)
}

// Parameters returns nil; Tanh has no trainable parameters.
func (t *Tanh[B]) Parameters() []*Parameter[B] { return nil }

// StateDict returns an empty map.
func (t *Tanh[B]) StateDict() map[string]*tensor.RawTensor { return map[string]*tensor.RawTensor{} }

// LoadStateDict is a no-op.
func (t *Tanh[B]) LoadStateDict(map[string]*tensor.RawTensor) error { return nil }

// ActivationByName builds one of the activation modules from its lowercase
// name. Model builders use this to turn a sampled Choice hyperparameter
// into a layer.
func ActivationByName[B tensor.Backend](name string) (Module[B], bool) {
	switch name {
	case "relu":
		return NewReLU[B](), true
	case "sigmoid":
		return NewSigmoid[B](), true
	case "tanh":
		return NewTanh[B](), true
	default:
		return nil, false
	}
}
