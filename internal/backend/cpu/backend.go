// Package cpu implements the tensor.Backend interface in pure Go.
package cpu

import (
	"github.com/ab-obi/tf-models/internal/parallel"
	"github.com/ab-obi/tf-models/internal/tensor"
)

// CPUBackend performs tensor operations on the host CPU.
// All operations allocate fresh result tensors; inputs are never
// modified, which keeps recorded autodiff graphs valid.
type CPUBackend struct {
	par parallel.Config
}

// New creates a new CPU backend with default parallelism.
func New() *CPUBackend {
	return &CPUBackend{par: parallel.DefaultConfig()}
}

// NewSequential creates a CPU backend with parallelism disabled.
// Deterministic single-goroutine execution, useful in tests.
func NewSequential() *CPUBackend {
	cfg := parallel.DefaultConfig()
	cfg.Enabled = false
	return &CPUBackend{par: cfg}
}

// Name returns the backend name.
func (b *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (b *CPUBackend) Device() tensor.Device {
	return tensor.CPU
}

// mustNewRaw allocates a RawTensor or panics. Shapes that reach backend
// kernels have already been validated by the caller.
func mustNewRaw(shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	raw, err := tensor.NewRaw(shape, dtype, tensor.CPU)
	if err != nil {
		panic(err)
	}
	return raw
}
