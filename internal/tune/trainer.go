package tune

import (
	"context"
	"fmt"

	"github.com/ab-obi/tf-models/internal/autodiff"
	"github.com/ab-obi/tf-models/internal/data"
	"github.com/ab-obi/tf-models/internal/nn"
	"github.com/ab-obi/tf-models/internal/optim"
)

// Builder maps sampled hyperparameters to a fresh, untrained model.
type Builder[B autodiff.BackwardCapable] func(hp *HyperParameters, backend B) (nn.Module[B], error)

// FitFunc trains one trial's model and returns its objective score.
// Custom fits override the default training loop, reading whatever
// hyperparameters they declare.
type FitFunc[B autodiff.BackwardCapable] func(ctx context.Context, run *TrialRun[B]) (float64, error)

// TrainerConfig configures the default training loop.
type TrainerConfig struct {
	// Epochs is the fixed number of training epochs per trial.
	Epochs int
	// Objective selects which metric scores the trial. The score is the
	// best per-epoch value of that metric under the objective direction.
	Objective Objective
}

// Trainer is the default FitFunc. Per trial it reads batch_size,
// learning_rate and lr_decay from the hyperparameters, builds an SGD
// optimizer, trains for a fixed number of epochs over shuffled batches
// and evaluates validation loss after each epoch as a running mean over
// validation batches. The trial's score is its best per-epoch value of
// the objective metric.
type Trainer[B autodiff.BackwardCapable] struct {
	epochs    int
	objective Objective
	callbacks []Callback[B]

	// NewOptimizer builds the per-trial optimizer. Defaults to SGD at
	// the sampled learning rate.
	NewOptimizer func(run *TrialRun[B], lr float64) optim.Optimizer
}

// NewTrainer creates the default trainer. Epochs defaults to 2 and the
// objective to minimizing val_loss.
func NewTrainer[B autodiff.BackwardCapable](cfg TrainerConfig, callbacks ...Callback[B]) *Trainer[B] {
	if cfg.Epochs <= 0 {
		cfg.Epochs = 2
	}
	if cfg.Objective.Metric == "" {
		cfg.Objective = DefaultObjective()
	}
	return &Trainer[B]{
		epochs:    cfg.Epochs,
		objective: cfg.Objective,
		callbacks: callbacks,
	}
}

// Fit trains one trial and returns its score.
func (tr *Trainer[B]) Fit(ctx context.Context, run *TrialRun[B]) (float64, error) {
	hp := run.HP
	batchSize := hp.Int("batch_size", 16, 128, 16)
	lr := hp.Float("learning_rate", 1e-3, 1e-1, SamplingLog)
	decay := hp.FloatStep("lr_decay", 0.85, 1.0, 0.05)

	if tr.NewOptimizer != nil {
		run.Optimizer = tr.NewOptimizer(run, lr)
	} else {
		run.Optimizer = optim.NewSGD(run.Model.Parameters(), optim.SGDConfig{LR: float32(lr)}, run.Backend)
	}
	schedule := optim.NewExponentialDecay(float32(lr), float32(decay))
	criterion := nn.NewCrossEntropyLoss(run.Backend)

	for _, cb := range tr.callbacks {
		if err := cb.OnTrialBegin(run); err != nil {
			return 0, fmt.Errorf("callback: %w", err)
		}
	}

	for epoch := 0; epoch < tr.epochs; epoch++ {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		run.Optimizer.SetLR(schedule.LR(epoch))
		trainLoss := tr.trainEpoch(run, criterion, batchSize)
		valLoss := tr.validate(run, criterion, batchSize)

		metrics := map[string]float64{
			"loss":          trainLoss,
			"val_loss":      valLoss,
			"learning_rate": float64(schedule.LR(epoch)),
		}
		run.Trial.RecordEpoch(epoch, metrics)

		for _, cb := range tr.callbacks {
			if err := cb.OnEpochEnd(run, epoch, metrics); err != nil {
				return 0, fmt.Errorf("callback: %w", err)
			}
		}

		run.Log.Info("epoch finished",
			"trial", run.Trial.ID,
			"epoch", epoch,
			"loss", trainLoss,
			"val_loss", valLoss,
			"lr", schedule.LR(epoch),
		)
	}

	for _, cb := range tr.callbacks {
		if err := cb.OnTrialEnd(run); err != nil {
			return 0, fmt.Errorf("callback: %w", err)
		}
	}

	history := run.Trial.MetricHistory(tr.objective.Metric)
	if len(history) == 0 {
		return 0, fmt.Errorf("no %q values recorded", tr.objective.Metric)
	}
	return tr.objective.BestOf(history), nil
}

// trainEpoch runs one pass of manual forward/backward over shuffled
// mini-batches and returns the mean training loss.
func (tr *Trainer[B]) trainEpoch(run *TrialRun[B], criterion *nn.CrossEntropyLoss[B], batchSize int) float64 {
	setTraining(run.Model, true)
	tape := run.Backend.GetTape()

	var total float64
	batches := data.Batches(run.Train, batchSize, run.Rng, run.Backend)
	for _, batch := range batches {
		tape.Clear()
		tape.StartRecording()

		logits := run.Model.Forward(batch.Features)
		loss := criterion.Forward(logits, batch.Labels)
		grads := autodiff.Backward(loss, run.Backend)

		tape.StopRecording()
		run.Optimizer.Step(grads)
		run.Optimizer.ZeroGrad()

		total += float64(loss.Data()[0])
	}
	tape.Clear()

	return total / float64(len(batches))
}

// validate computes the epoch's validation loss as a running mean over
// validation batch losses.
func (tr *Trainer[B]) validate(run *TrialRun[B], criterion *nn.CrossEntropyLoss[B], batchSize int) float64 {
	setTraining(run.Model, false)

	var mean float64
	count := 0
	for _, batch := range data.Batches(run.Val, batchSize, nil, run.Backend) {
		logits := run.Model.Forward(batch.Features)
		loss := criterion.Forward(logits, batch.Labels)

		count++
		mean += (float64(loss.Data()[0]) - mean) / float64(count)
	}
	return mean
}

func setTraining[B autodiff.BackwardCapable](m nn.Module[B], training bool) {
	if t, ok := any(m).(interface{ SetTraining(bool) }); ok {
		t.SetTraining(training)
	}
}
