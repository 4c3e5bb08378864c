package nn_test

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ab-obi/tf-models/internal/autodiff"
	"github.com/ab-obi/tf-models/internal/backend/cpu"
	"github.com/ab-obi/tf-models/internal/nn"
	"github.com/ab-obi/tf-models/internal/optim"
	"github.com/ab-obi/tf-models/internal/tensor"
)

func fromSlice(t *testing.T, data []float32, shape tensor.Shape, b *cpu.CPUBackend) *tensor.Tensor[float32, *cpu.CPUBackend] {
	t.Helper()
	tt, err := tensor.FromSlice(data, shape, b)
	require.NoError(t, err)
	return tt
}

func TestLinearForward(t *testing.T) {
	backend := cpu.NewSequential()
	rng := rand.New(rand.NewSource(42))
	layer := nn.NewLinear(3, 2, rng, backend)

	// Pin weights so the output is checkable: y = x @ W^T + b.
	w := layer.Weight().Tensor().Data()
	copy(w, []float32{1, 0, 0, 0, 1, 0}) // [2,3]
	b := layer.Bias().Tensor().Data()
	copy(b, []float32{10, 20})

	input := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{1, 3}, backend)
	out := layer.Forward(input)

	require.True(t, out.Shape().Equal(tensor.Shape{1, 2}))
	assert.InDelta(t, 11.0, out.Data()[0], 1e-5)
	assert.InDelta(t, 22.0, out.Data()[1], 1e-5)
}

func TestLinearParameters(t *testing.T) {
	backend := cpu.NewSequential()
	rng := rand.New(rand.NewSource(1))
	layer := nn.NewLinear(4, 8, rng, backend)

	params := layer.Parameters()
	require.Len(t, params, 2)
	assert.Equal(t, "weight", params[0].Name())
	assert.Equal(t, "bias", params[1].Name())
	assert.True(t, params[0].Tensor().Shape().Equal(tensor.Shape{8, 4}))
	assert.True(t, params[1].Tensor().Shape().Equal(tensor.Shape{8}))
}

func TestSequentialForwardOrder(t *testing.T) {
	backend := cpu.NewSequential()
	rng := rand.New(rand.NewSource(7))

	model := nn.NewSequential[*cpu.CPUBackend](
		nn.NewLinear(4, 8, rng, backend),
		nn.NewReLU[*cpu.CPUBackend](),
	)
	model.Add(nn.NewLinear(8, 3, rng, backend))
	require.Equal(t, 3, model.Len())

	input := fromSlice(t, []float32{0.5, -0.5, 1, 0}, tensor.Shape{1, 4}, backend)
	out := model.Forward(input)
	assert.True(t, out.Shape().Equal(tensor.Shape{1, 3}))
}

func TestSequentialStateDictRoundTrip(t *testing.T) {
	backend := cpu.NewSequential()
	rng := rand.New(rand.NewSource(11))

	src := nn.NewSequential[*cpu.CPUBackend](
		nn.NewLinear(3, 5, rng, backend),
		nn.NewReLU[*cpu.CPUBackend](),
		nn.NewLinear(5, 2, rng, backend),
	)
	dst := nn.NewSequential[*cpu.CPUBackend](
		nn.NewLinear(3, 5, rand.New(rand.NewSource(99)), backend),
		nn.NewReLU[*cpu.CPUBackend](),
		nn.NewLinear(5, 2, rand.New(rand.NewSource(99)), backend),
	)

	state := src.StateDict()
	require.Contains(t, state, "0.weight")
	require.Contains(t, state, "0.bias")
	require.Contains(t, state, "2.weight")
	require.NoError(t, dst.LoadStateDict(state))

	input := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{1, 3}, backend)
	want := src.Forward(input).Data()
	got := dst.Forward(input).Data()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-6)
	}
}

func TestLoadStateDictShapeMismatch(t *testing.T) {
	backend := cpu.NewSequential()
	rng := rand.New(rand.NewSource(3))

	small := nn.NewLinear(2, 2, rng, backend)
	big := nn.NewLinear(4, 4, rng, backend)

	err := small.LoadStateDict(big.StateDict())
	assert.Error(t, err)
}

func TestDropoutTrainingAndEval(t *testing.T) {
	backend := cpu.NewSequential()
	rng := rand.New(rand.NewSource(5))
	drop := nn.NewDropout[*cpu.CPUBackend](0.5, rng)

	data := make([]float32, 1000)
	for i := range data {
		data[i] = 1
	}
	input := fromSlice(t, data, tensor.Shape{1, 1000}, backend)

	// Eval mode passes input through untouched.
	drop.SetTraining(false)
	out := drop.Forward(input)
	assert.Equal(t, input.Data()[0], out.Data()[0])

	// Training mode zeroes roughly half the elements and rescales the rest.
	drop.SetTraining(true)
	out = drop.Forward(input)
	zeros := 0
	for _, v := range out.Data() {
		if v == 0 {
			zeros++
		} else {
			assert.InDelta(t, 2.0, v, 1e-5)
		}
	}
	assert.Greater(t, zeros, 300)
	assert.Less(t, zeros, 700)
}

func TestActivationByName(t *testing.T) {
	for _, name := range []string{"relu", "sigmoid", "tanh"} {
		_, ok := nn.ActivationByName[*cpu.CPUBackend](name)
		assert.True(t, ok, name)
	}
	_, ok := nn.ActivationByName[*cpu.CPUBackend]("gelu")
	assert.False(t, ok)
}

func TestMSELoss(t *testing.T) {
	backend := cpu.NewSequential()
	criterion := nn.NewMSELoss(backend)

	pred := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{3}, backend)
	target := fromSlice(t, []float32{1, 2, 6}, tensor.Shape{3}, backend)

	loss := criterion.Forward(pred, target)
	assert.InDelta(t, 3.0, loss.Data()[0], 1e-5) // (0+0+9)/3
}

func TestMSELossBackward(t *testing.T) {
	backend := autodiff.New(cpu.NewSequential())
	rng := rand.New(rand.NewSource(3))
	layer := nn.NewLinear(1, 1, rng, backend)
	copy(layer.Weight().Tensor().Data(), []float32{2})
	copy(layer.Bias().Tensor().Data(), []float32{0})

	input, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2, 1}, backend)
	require.NoError(t, err)
	target, err := tensor.FromSlice([]float32{0, 0}, tensor.Shape{2, 1}, backend)
	require.NoError(t, err)

	criterion := nn.NewMSELoss(backend)
	backend.Tape().StartRecording()
	loss := criterion.Forward(layer.Forward(input), target)
	backend.Tape().StopRecording()

	// pred = [2, 4], loss = (4 + 16) / 2 = 10
	assert.InDelta(t, 10.0, loss.Data()[0], 1e-4)

	grads := autodiff.Backward(loss, backend)

	// dL/dpred = [2, 4]; dL/dw = 1*2 + 2*4 = 10; dL/db = 2 + 4 = 6
	wGrad, ok := grads[layer.Weight().Tensor().Raw()]
	require.True(t, ok, "no gradient reached the weight")
	assert.InDelta(t, 10.0, wGrad.AsFloat32()[0], 1e-4)

	bGrad, ok := grads[layer.Bias().Tensor().Raw()]
	require.True(t, ok, "no gradient reached the bias")
	assert.InDelta(t, 6.0, bGrad.AsFloat32()[0], 1e-4)
}

func TestCrossEntropyLossAndAccuracy(t *testing.T) {
	backend := cpu.NewSequential()
	criterion := nn.NewCrossEntropyLoss(backend)

	logits := fromSlice(t, []float32{5, 0, 0, 0, 5, 0}, tensor.Shape{2, 3}, backend)
	targetsRaw, err := tensor.NewRaw(tensor.Shape{2}, tensor.Int32, tensor.CPU)
	require.NoError(t, err)
	copy(targetsRaw.AsInt32(), []int32{0, 1})
	targets := tensor.New[int32](targetsRaw, backend)

	loss := criterion.Forward(logits, targets)
	assert.Greater(t, loss.Data()[0], float32(0))
	assert.Less(t, loss.Data()[0], float32(0.1)) // confident and correct

	assert.InDelta(t, 1.0, nn.Accuracy(logits, targets), 1e-6)

	copy(targetsRaw.AsInt32(), []int32{1, 0}) // both wrong now
	assert.InDelta(t, 0.0, nn.Accuracy(logits, targets), 1e-6)
}

func TestCheckpointSaveLoadRoundTrip(t *testing.T) {
	backend := cpu.NewSequential()
	rng := rand.New(rand.NewSource(21))

	model := nn.NewSequential[*cpu.CPUBackend](
		nn.NewLinear(4, 6, rng, backend),
		nn.NewTanh[*cpu.CPUBackend](),
		nn.NewLinear(6, 2, rng, backend),
	)
	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.05, Momentum: 0.9}, backend)

	path := filepath.Join(t.TempDir(), "epoch-3.tfm")
	ckpt := &nn.Checkpoint[*cpu.CPUBackend]{
		Model:     model,
		Optimizer: optimizer,
		TrialID:   "trial-abc",
		Epoch:     3,
		Score:     0.412,
		Hyperparameters: map[string]any{
			"learning_rate": 0.05,
			"num_layers":    2,
		},
	}
	require.NoError(t, ckpt.Save(path))

	restored := nn.NewSequential[*cpu.CPUBackend](
		nn.NewLinear(4, 6, rand.New(rand.NewSource(77)), backend),
		nn.NewTanh[*cpu.CPUBackend](),
		nn.NewLinear(6, 2, rand.New(rand.NewSource(77)), backend),
	)
	restoredOpt := optim.NewSGD(restored.Parameters(), optim.SGDConfig{LR: 0.05, Momentum: 0.9}, backend)

	loaded, err := nn.LoadCheckpoint(path, backend, restored, restoredOpt)
	require.NoError(t, err)
	assert.Equal(t, "trial-abc", loaded.TrialID)
	assert.Equal(t, 3, loaded.Epoch)
	assert.InDelta(t, 0.412, loaded.Score, 1e-9)

	input := fromSlice(t, []float32{1, -1, 0.5, 2}, tensor.Shape{1, 4}, backend)
	want := model.Forward(input).Data()
	got := restored.Forward(input).Data()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-6)
	}
}

func TestLoadCheckpointNilOptimizer(t *testing.T) {
	backend := cpu.NewSequential()
	rng := rand.New(rand.NewSource(2))
	model := nn.NewSequential[*cpu.CPUBackend](nn.NewLinear(2, 2, rng, backend))

	path := filepath.Join(t.TempDir(), "weights.tfm")
	ckpt := &nn.Checkpoint[*cpu.CPUBackend]{Model: model, Epoch: 1}
	require.NoError(t, ckpt.Save(path))

	restored := nn.NewSequential[*cpu.CPUBackend](nn.NewLinear(2, 2, rng, backend))
	_, err := nn.LoadCheckpoint(path, backend, restored, nil)
	require.NoError(t, err)
}
