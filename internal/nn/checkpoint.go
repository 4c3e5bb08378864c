package nn

import (
	"fmt"
	"strings"
	"time"

	"github.com/ab-obi/tf-models/internal/serialization"
	"github.com/ab-obi/tf-models/internal/tensor"
)

// OptimizerState is an optimizer that can save and load its state.
// It is declared here rather than in optim to avoid an import cycle;
// optimizers from the optim package implement it.
type OptimizerState interface {
	// StateDict returns the optimizer state (momentum buffers, Adam
	// moments) keyed by parameter name plus slot suffix.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict restores previously saved optimizer state.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error

	// Name returns the optimizer type identifier ("SGD", "Adam").
	Name() string

	// GetLR returns the current learning rate.
	GetLR() float32
}

// Checkpoint is a complete training state snapshot: model parameters,
// optimizer state and trial metadata. The tuner writes one per epoch so
// that the best weights of a trial can be restored after the search.
//
// Example:
//
//	ckpt := &nn.Checkpoint[*cpu.Backend]{
//	    Model:     model,
//	    Optimizer: optimizer,
//	    Epoch:     4,
//	    Score:     0.231,
//	}
//	err := ckpt.Save("trial-3/epoch-4.tfm")
type Checkpoint[B tensor.Backend] struct {
	Model           Module[B]
	Optimizer       OptimizerState
	TrialID         string
	Epoch           int
	Score           float64
	Hyperparameters map[string]any
	CreatedAt       time.Time
}

// Save writes the checkpoint to a .tfm file. Optimizer state tensors are
// stored under an "optimizer." prefix alongside the model parameters.
func (c *Checkpoint[B]) Save(path string) error {
	combined := make(map[string]*tensor.RawTensor)
	for name, raw := range c.Model.StateDict() {
		combined[name] = raw
	}
	if c.Optimizer != nil {
		for name, raw := range c.Optimizer.StateDict() {
			combined["optimizer."+name] = raw
		}
	}

	meta := &serialization.CheckpointMeta{
		TrialID:         c.TrialID,
		Epoch:           c.Epoch,
		Score:           c.Score,
		Hyperparameters: c.Hyperparameters,
	}
	if c.Optimizer != nil {
		meta.OptimizerType = c.Optimizer.Name()
		meta.OptimizerConfig = map[string]float64{"lr": float64(c.Optimizer.GetLR())}
	}

	writer, err := serialization.NewWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create writer: %w", err)
	}
	defer writer.Close()

	header := serialization.Header{
		ModelType:      "Checkpoint",
		CheckpointMeta: meta,
	}
	if err := writer.WriteStateDictWithHeader(combined, header); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return writer.Close()
}

// LoadCheckpoint restores a checkpoint from a .tfm file into a
// pre-constructed model and optimizer. Both must match the architecture
// and configuration used when the checkpoint was saved. A nil optimizer
// skips optimizer state restoration.
func LoadCheckpoint[B tensor.Backend](path string, backend B, model Module[B], optimizer OptimizerState) (*Checkpoint[B], error) {
	reader, err := serialization.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint: %w", err)
	}
	defer reader.Close()

	header := reader.Header()
	if header.CheckpointMeta == nil {
		return nil, fmt.Errorf("%s is not a checkpoint file", path)
	}

	stateDict, err := reader.ReadStateDict(backend.Device())
	if err != nil {
		return nil, fmt.Errorf("failed to read state dict: %w", err)
	}

	modelState := make(map[string]*tensor.RawTensor)
	optimizerState := make(map[string]*tensor.RawTensor)
	for name, raw := range stateDict {
		if rest, ok := strings.CutPrefix(name, "optimizer."); ok {
			optimizerState[rest] = raw
		} else {
			modelState[name] = raw
		}
	}

	if err := model.LoadStateDict(modelState); err != nil {
		return nil, fmt.Errorf("failed to load model state: %w", err)
	}
	if optimizer != nil && len(optimizerState) > 0 {
		if err := optimizer.LoadStateDict(optimizerState); err != nil {
			return nil, fmt.Errorf("failed to load optimizer state: %w", err)
		}
	}

	return &Checkpoint[B]{
		Model:           model,
		Optimizer:       optimizer,
		TrialID:         header.CheckpointMeta.TrialID,
		Epoch:           header.CheckpointMeta.Epoch,
		Score:           header.CheckpointMeta.Score,
		Hyperparameters: header.CheckpointMeta.Hyperparameters,
		CreatedAt:       header.CreatedAt,
	}, nil
}
