package optim

import (
	"fmt"
	"math"

	"github.com/ab-obi/tf-models/internal/nn"
	"github.com/ab-obi/tf-models/internal/tensor"
)

// Adam implements the Adam (adaptive moment estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // first moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // second moment
//	m_hat = m_t / (1 - beta1^t)                        // bias correction
//	v_hat = v_t / (1 - beta2^t)
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014).
//
// Example:
//
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{
//	    LR: 0.001,
//	}, backend)
type Adam[B tensor.Backend] struct {
	params  []*nn.Parameter[B]
	lr      float32
	beta1   float32
	beta2   float32
	eps     float32
	t       int // timestep for bias correction
	m       map[*nn.Parameter[B]]*tensor.Tensor[float32, B]
	v       map[*nn.Parameter[B]]*tensor.Tensor[float32, B]
	backend B
}

// AdamConfig holds configuration for the Adam optimizer.
type AdamConfig struct {
	LR    float32    // learning rate (default: 0.001)
	Betas [2]float32 // moving average coefficients (default: [0.9, 0.999])
	Eps   float32    // numerical stability term (default: 1e-8)
}

// NewAdam creates a new Adam optimizer over the given parameters.
// Zero-valued config fields take the defaults.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], config AdamConfig, backend B) *Adam[B] {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &Adam[B]{
		params:  params,
		lr:      config.LR,
		beta1:   config.Betas[0],
		beta2:   config.Betas[1],
		eps:     config.Eps,
		m:       make(map[*nn.Parameter[B]]*tensor.Tensor[float32, B]),
		v:       make(map[*nn.Parameter[B]]*tensor.Tensor[float32, B]),
		backend: backend,
	}
}

// Step performs a single Adam optimization step. Parameters with no
// gradient in the map are skipped.
func (a *Adam[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	a.t++
	biasCorrection1 := float32(1.0 - math.Pow(float64(a.beta1), float64(a.t)))
	biasCorrection2 := float32(1.0 - math.Pow(float64(a.beta2), float64(a.t)))

	for _, param := range a.params {
		grad := getGradient(param, grads)
		if grad == nil {
			continue
		}

		m, exists := a.m[param]
		if !exists {
			m = tensor.Zeros[float32](param.Tensor().Shape(), a.backend)
			a.m[param] = m
		}
		v, exists := a.v[param]
		if !exists {
			v = tensor.Zeros[float32](param.Tensor().Shape(), a.backend)
			a.v[param] = v
		}

		a.updateParameter(param, grad, m, v, biasCorrection1, biasCorrection2)
	}
}

func (a *Adam[B]) updateParameter(
	param *nn.Parameter[B],
	grad *tensor.RawTensor,
	m, v *tensor.Tensor[float32, B],
	biasCorrection1, biasCorrection2 float32,
) {
	gradData := grad.AsFloat32()
	mData := m.Raw().AsFloat32()
	vData := v.Raw().AsFloat32()
	paramData := param.Tensor().Raw().AsFloat32()

	for i := range paramData {
		g := gradData[i]
		mData[i] = a.beta1*mData[i] + (1.0-a.beta1)*g
		vData[i] = a.beta2*vData[i] + (1.0-a.beta2)*g*g

		mHat := mData[i] / biasCorrection1
		vHat := vData[i] / biasCorrection2
		paramData[i] -= a.lr * mHat / (float32(math.Sqrt(float64(vHat))) + a.eps)
	}
}

// ZeroGrad clears gradients for all parameters.
func (a *Adam[B]) ZeroGrad() {
	for _, param := range a.params {
		param.ZeroGrad()
	}
}

// Name returns "Adam".
func (a *Adam[B]) Name() string {
	return "Adam"
}

// GetLR returns the current learning rate.
func (a *Adam[B]) GetLR() float32 {
	return a.lr
}

// SetLR updates the learning rate. Used by schedules between epochs.
func (a *Adam[B]) SetLR(lr float32) {
	a.lr = lr
}

// GetTimestep returns the current timestep.
func (a *Adam[B]) GetTimestep() int {
	return a.t
}

// StateDict exports moment buffers keyed "m.{i}" and "v.{i}", plus a
// single-element "t" tensor holding the timestep.
func (a *Adam[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)

	for i, param := range a.params {
		if m, exists := a.m[param]; exists {
			stateDict[fmt.Sprintf("m.%d", i)] = m.Raw()
		}
		if v, exists := a.v[param]; exists {
			stateDict[fmt.Sprintf("v.%d", i)] = v.Raw()
		}
	}

	t := tensor.Scalar(int32(a.t), a.backend)
	stateDict["t"] = t.Raw()
	return stateDict
}

// LoadStateDict restores moment buffers and the timestep. Missing
// buffers are initialized on the next Step.
func (a *Adam[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	a.m = make(map[*nn.Parameter[B]]*tensor.Tensor[float32, B])
	a.v = make(map[*nn.Parameter[B]]*tensor.Tensor[float32, B])

	for i, param := range a.params {
		if raw, exists := stateDict[fmt.Sprintf("m.%d", i)]; exists {
			if !raw.Shape().Equal(param.Tensor().Shape()) {
				return fmt.Errorf("first moment shape mismatch for parameter %d: expected %v, got %v",
					i, param.Tensor().Shape(), raw.Shape())
			}
			// Copy rather than alias so the source state dict stays
			// independent of future Steps.
			m := tensor.Zeros[float32](param.Tensor().Shape(), a.backend)
			copy(m.Data(), raw.AsFloat32())
			a.m[param] = m
		}
		if raw, exists := stateDict[fmt.Sprintf("v.%d", i)]; exists {
			if !raw.Shape().Equal(param.Tensor().Shape()) {
				return fmt.Errorf("second moment shape mismatch for parameter %d: expected %v, got %v",
					i, param.Tensor().Shape(), raw.Shape())
			}
			v := tensor.Zeros[float32](param.Tensor().Shape(), a.backend)
			copy(v.Data(), raw.AsFloat32())
			a.v[param] = v
		}
	}

	if raw, exists := stateDict["t"]; exists {
		if raw.DType() != tensor.Int32 || raw.NumElements() != 1 {
			return fmt.Errorf("invalid timestep tensor: dtype %v, %d elements", raw.DType(), raw.NumElements())
		}
		a.t = int(raw.AsInt32()[0])
	}
	return nil
}
