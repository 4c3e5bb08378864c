package optim_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ab-obi/tf-models/internal/backend/cpu"
	"github.com/ab-obi/tf-models/internal/nn"
	"github.com/ab-obi/tf-models/internal/optim"
	"github.com/ab-obi/tf-models/internal/tensor"
)

func scalarParam(t *testing.T, name string, value float32, b *cpu.CPUBackend) *nn.Parameter[*cpu.CPUBackend] {
	t.Helper()
	tt, err := tensor.FromSlice([]float32{value}, tensor.Shape{1}, b)
	require.NoError(t, err)
	return nn.NewParameter(name, tt)
}

func gradFor(t *testing.T, param *nn.Parameter[*cpu.CPUBackend], value float32) map[*tensor.RawTensor]*tensor.RawTensor {
	t.Helper()
	grad, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	grad.AsFloat32()[0] = value
	return map[*tensor.RawTensor]*tensor.RawTensor{param.Tensor().Raw(): grad}
}

func TestSGDSimpleUpdate(t *testing.T) {
	backend := cpu.NewSequential()
	param := scalarParam(t, "x", 2.0, backend)
	sgd := optim.NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param}, optim.SGDConfig{LR: 0.1}, backend)

	// x = 2.0, grad = 1.0, lr = 0.1 -> x = 1.9
	sgd.Step(gradFor(t, param, 1.0))
	assert.InDelta(t, 1.9, param.Tensor().Data()[0], 1e-6)
}

func TestSGDMomentumAccumulates(t *testing.T) {
	backend := cpu.NewSequential()
	param := scalarParam(t, "x", 0.0, backend)
	sgd := optim.NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param}, optim.SGDConfig{LR: 0.1, Momentum: 0.9}, backend)

	// Step 1: v = 1, x = -0.1
	sgd.Step(gradFor(t, param, 1.0))
	assert.InDelta(t, -0.1, param.Tensor().Data()[0], 1e-6)

	// Step 2: v = 0.9*1 + 1 = 1.9, x = -0.1 - 0.19 = -0.29
	sgd.Step(gradFor(t, param, 1.0))
	assert.InDelta(t, -0.29, param.Tensor().Data()[0], 1e-6)
}

func TestSGDSkipsParamsWithoutGradient(t *testing.T) {
	backend := cpu.NewSequential()
	a := scalarParam(t, "a", 1.0, backend)
	b := scalarParam(t, "b", 1.0, backend)
	sgd := optim.NewSGD([]*nn.Parameter[*cpu.CPUBackend]{a, b}, optim.SGDConfig{LR: 0.1}, backend)

	sgd.Step(gradFor(t, a, 1.0))
	assert.InDelta(t, 0.9, a.Tensor().Data()[0], 1e-6)
	assert.InDelta(t, 1.0, b.Tensor().Data()[0], 1e-6)
}

func TestSGDSetLR(t *testing.T) {
	backend := cpu.NewSequential()
	param := scalarParam(t, "x", 1.0, backend)
	sgd := optim.NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param}, optim.SGDConfig{LR: 0.1}, backend)

	assert.InDelta(t, 0.1, sgd.GetLR(), 1e-6)
	sgd.SetLR(0.01)
	assert.InDelta(t, 0.01, sgd.GetLR(), 1e-6)

	sgd.Step(gradFor(t, param, 1.0))
	assert.InDelta(t, 0.99, param.Tensor().Data()[0], 1e-6)
}

func TestSGDStateDictRoundTrip(t *testing.T) {
	backend := cpu.NewSequential()
	param := scalarParam(t, "x", 0.0, backend)
	sgd := optim.NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param}, optim.SGDConfig{LR: 0.1, Momentum: 0.9}, backend)
	sgd.Step(gradFor(t, param, 1.0))

	state := sgd.StateDict()
	require.Contains(t, state, "velocity.0")

	fresh := scalarParam(t, "x", -0.1, backend)
	restored := optim.NewSGD([]*nn.Parameter[*cpu.CPUBackend]{fresh}, optim.SGDConfig{LR: 0.1, Momentum: 0.9}, backend)
	require.NoError(t, restored.LoadStateDict(state))

	// Both should take identical second steps.
	sgd.Step(gradFor(t, param, 1.0))
	restored.Step(gradFor(t, fresh, 1.0))
	assert.InDelta(t, param.Tensor().Data()[0], fresh.Tensor().Data()[0], 1e-6)
}

func TestSGDLoadStateDictCopiesBuffers(t *testing.T) {
	backend := cpu.NewSequential()
	param := scalarParam(t, "x", 0.0, backend)
	sgd := optim.NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param}, optim.SGDConfig{LR: 0.1, Momentum: 0.9}, backend)

	src, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	src.AsFloat32()[0] = 1.0
	require.NoError(t, sgd.LoadStateDict(map[string]*tensor.RawTensor{"velocity.0": src}))

	// Stepping the optimizer must not write through to the source buffer.
	sgd.Step(gradFor(t, param, 1.0))
	assert.InDelta(t, 1.0, src.AsFloat32()[0], 1e-6)
}

func TestAdamMovesAgainstGradient(t *testing.T) {
	backend := cpu.NewSequential()
	param := scalarParam(t, "x", 1.0, backend)
	adam := optim.NewAdam([]*nn.Parameter[*cpu.CPUBackend]{param}, optim.AdamConfig{LR: 0.1}, backend)

	// First Adam step with bias correction moves by exactly lr against
	// the gradient sign (up to eps).
	adam.Step(gradFor(t, param, 2.0))
	assert.InDelta(t, 0.9, param.Tensor().Data()[0], 1e-4)

	for i := 0; i < 10; i++ {
		adam.Step(gradFor(t, param, 2.0))
	}
	assert.Less(t, param.Tensor().Data()[0], float32(0.9))
}

func TestAdamStateDictRoundTrip(t *testing.T) {
	backend := cpu.NewSequential()
	param := scalarParam(t, "x", 1.0, backend)
	adam := optim.NewAdam([]*nn.Parameter[*cpu.CPUBackend]{param}, optim.AdamConfig{LR: 0.1}, backend)
	adam.Step(gradFor(t, param, 1.0))
	adam.Step(gradFor(t, param, 1.0))

	state := adam.StateDict()
	require.Contains(t, state, "m.0")
	require.Contains(t, state, "v.0")
	require.Contains(t, state, "t")

	fresh := scalarParam(t, "x", param.Tensor().Data()[0], backend)
	restored := optim.NewAdam([]*nn.Parameter[*cpu.CPUBackend]{fresh}, optim.AdamConfig{LR: 0.1}, backend)
	require.NoError(t, restored.LoadStateDict(state))

	adam.Step(gradFor(t, param, 1.0))
	restored.Step(gradFor(t, fresh, 1.0))
	assert.InDelta(t, param.Tensor().Data()[0], fresh.Tensor().Data()[0], 1e-6)
}

func TestAdamLoadStateDictCopiesBuffers(t *testing.T) {
	backend := cpu.NewSequential()
	param := scalarParam(t, "x", 1.0, backend)
	adam := optim.NewAdam([]*nn.Parameter[*cpu.CPUBackend]{param}, optim.AdamConfig{LR: 0.1}, backend)
	adam.Step(gradFor(t, param, 1.0))

	state := adam.StateDict()
	mBefore := state["m.0"].AsFloat32()[0]

	fresh := scalarParam(t, "x", 1.0, backend)
	restored := optim.NewAdam([]*nn.Parameter[*cpu.CPUBackend]{fresh}, optim.AdamConfig{LR: 0.1}, backend)
	require.NoError(t, restored.LoadStateDict(state))

	// Stepping the restored optimizer must not write through to the
	// donor's exported moment buffers.
	restored.Step(gradFor(t, fresh, 1.0))
	assert.InDelta(t, mBefore, state["m.0"].AsFloat32()[0], 1e-6)
}

func TestAdamLoadStateDictShapeMismatch(t *testing.T) {
	backend := cpu.NewSequential()
	param := scalarParam(t, "x", 1.0, backend)
	adam := optim.NewAdam([]*nn.Parameter[*cpu.CPUBackend]{param}, optim.AdamConfig{}, backend)

	wrong, err := tensor.NewRaw(tensor.Shape{3}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	err = adam.LoadStateDict(map[string]*tensor.RawTensor{"m.0": wrong})
	assert.Error(t, err)
}

func TestConstantSchedule(t *testing.T) {
	s := optim.NewConstant(0.05)
	for epoch := 0; epoch < 5; epoch++ {
		assert.InDelta(t, 0.05, s.LR(epoch), 1e-6)
	}
}

func TestStepDecaySchedule(t *testing.T) {
	s := optim.NewStepDecay(0.1, 0.5, 2)
	assert.InDelta(t, 0.1, s.LR(0), 1e-6)
	assert.InDelta(t, 0.1, s.LR(1), 1e-6)
	assert.InDelta(t, 0.05, s.LR(2), 1e-6)
	assert.InDelta(t, 0.025, s.LR(4), 1e-6)
}

func TestExponentialDecaySchedule(t *testing.T) {
	s := optim.NewExponentialDecay(0.1, 0.9)
	assert.InDelta(t, 0.1, s.LR(0), 1e-6)
	assert.InDelta(t, 0.09, s.LR(1), 1e-6)
	assert.InDelta(t, 0.1*0.9*0.9, s.LR(2), 1e-6)

	// Decay of 1 keeps the rate constant.
	flat := optim.NewExponentialDecay(0.1, 1.0)
	assert.InDelta(t, 0.1, flat.LR(10), 1e-6)

	assert.Panics(t, func() { optim.NewExponentialDecay(0.1, 1.5) })
	assert.Panics(t, func() { optim.NewExponentialDecay(0.1, 0) })
}

func TestOptimizerImplementsCheckpointState(t *testing.T) {
	backend := cpu.NewSequential()
	rng := rand.New(rand.NewSource(1))
	model := nn.NewSequential[*cpu.CPUBackend](nn.NewLinear(2, 2, rng, backend))

	var state nn.OptimizerState
	state = optim.NewSGD(model.Parameters(), optim.SGDConfig{}, backend)
	assert.Equal(t, "SGD", state.Name())
	state = optim.NewAdam(model.Parameters(), optim.AdamConfig{}, backend)
	assert.Equal(t, "Adam", state.Name())
}
