package tune

import (
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"

	"github.com/ab-obi/tf-models/internal/autodiff"
	"github.com/ab-obi/tf-models/internal/data"
	"github.com/ab-obi/tf-models/internal/nn"
	"github.com/ab-obi/tf-models/internal/optim"
)

// TrialRun bundles everything one trial's training needs: the trial
// record, its hyperparameters, the freshly built model and the data it
// trains on. FitFuncs and callbacks receive it.
type TrialRun[B autodiff.BackwardCapable] struct {
	Trial     *Trial
	HP        *HyperParameters
	Model     nn.Module[B]
	Optimizer optim.Optimizer
	Backend   B
	Train     *data.Dataset
	Val       *data.Dataset
	Rng       *rand.Rand // seeded per trial, drives batch shuffling
	Dir       string     // trial directory for checkpoints and artifacts
	Log       *slog.Logger
}

// Callback observes a trial's training. Implementations carrying state
// across epochs reset it in OnTrialBegin, since one callback instance
// serves every trial of a search.
type Callback[B autodiff.BackwardCapable] interface {
	OnTrialBegin(run *TrialRun[B]) error
	OnEpochEnd(run *TrialRun[B], epoch int, metrics map[string]float64) error
	OnTrialEnd(run *TrialRun[B]) error
}

// ModelCheckpoint saves training checkpoints into the trial directory.
// With SaveBestOnly it keeps a single checkpoint.tfm holding the weights
// of the best epoch so far under the objective; otherwise every epoch is
// written as epoch-N.tfm.
type ModelCheckpoint[B autodiff.BackwardCapable] struct {
	objective    Objective
	saveBestOnly bool
	best         float64
	hasBest      bool
}

// NewModelCheckpoint creates a checkpoint callback tracking the given
// objective metric.
func NewModelCheckpoint[B autodiff.BackwardCapable](objective Objective, saveBestOnly bool) *ModelCheckpoint[B] {
	return &ModelCheckpoint[B]{objective: objective, saveBestOnly: saveBestOnly}
}

// OnTrialBegin resets best tracking for the new trial.
func (c *ModelCheckpoint[B]) OnTrialBegin(*TrialRun[B]) error {
	c.hasBest = false
	c.best = 0
	return nil
}

// OnEpochEnd saves a checkpoint when the epoch's metric warrants one.
func (c *ModelCheckpoint[B]) OnEpochEnd(run *TrialRun[B], epoch int, metrics map[string]float64) error {
	if run.Dir == "" {
		return nil // no trial directory, nothing to save into
	}
	metric, ok := metrics[c.objective.Metric]
	if !ok {
		return fmt.Errorf("checkpoint: metric %q missing from epoch metrics", c.objective.Metric)
	}

	path := filepath.Join(run.Dir, fmt.Sprintf("epoch-%d.tfm", epoch))
	if c.saveBestOnly {
		if c.hasBest && !c.objective.Better(metric, c.best) {
			return nil
		}
		c.best = metric
		c.hasBest = true
		path = filepath.Join(run.Dir, "checkpoint.tfm")
	}

	ckpt := &nn.Checkpoint[B]{
		Model:           run.Model,
		Optimizer:       run.Optimizer,
		TrialID:         run.Trial.ID,
		Epoch:           epoch,
		Score:           metric,
		Hyperparameters: run.Trial.Values,
	}
	if err := ckpt.Save(path); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}

	run.Log.Debug("checkpoint saved", "trial", run.Trial.ID, "epoch", epoch, "path", path)
	return nil
}

// OnTrialEnd implements Callback.
func (c *ModelCheckpoint[B]) OnTrialEnd(*TrialRun[B]) error {
	return nil
}
