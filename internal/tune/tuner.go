package tune

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/ab-obi/tf-models/internal/autodiff"
	"github.com/ab-obi/tf-models/internal/data"
)

// TunerConfig configures a search.
type TunerConfig[B autodiff.BackwardCapable] struct {
	Oracle  Oracle
	Builder Builder[B]
	// Fit trains one trial. Nil takes the default Trainer with a
	// ModelCheckpoint callback saving best weights per trial.
	Fit        FitFunc[B]
	Objective  Objective // default: minimize val_loss
	MaxTrials  int       // default: 10
	Epochs     int       // default trainer epochs (default: 2)
	Dataset    *data.Dataset
	ValSplit   float64 // validation fraction (default: 0.2)
	NewBackend func() B
	Store      *TrialStore // nil disables persistence
	Seed       int64       // seeds per-trial batch shuffling
	// Space is a pre-declared search space, typically from Config.Space.
	// Nil starts empty; builders and fits declare parameters as they run.
	Space *HyperParameters
	Log   *slog.Logger
}

// Tuner drives a hyperparameter search: ask the oracle for values,
// build a fresh model, fit it, record the score and keep the best
// trial. A failing trial is marked failed and the search continues.
type Tuner[B autodiff.BackwardCapable] struct {
	cfg    TunerConfig[B]
	space  *HyperParameters
	trials []*Trial
	best   *Trial
}

// NewTuner validates the config and creates a tuner.
func NewTuner[B autodiff.BackwardCapable](cfg TunerConfig[B]) (*Tuner[B], error) {
	if cfg.Oracle == nil {
		return nil, errors.New("tuner: oracle is required")
	}
	if cfg.Builder == nil {
		return nil, errors.New("tuner: builder is required")
	}
	if cfg.Dataset == nil {
		return nil, errors.New("tuner: dataset is required")
	}
	if cfg.NewBackend == nil {
		return nil, errors.New("tuner: backend constructor is required")
	}
	if cfg.Objective.Metric == "" {
		cfg.Objective = DefaultObjective()
	}
	if cfg.MaxTrials <= 0 {
		cfg.MaxTrials = 10
	}
	if cfg.ValSplit == 0 {
		cfg.ValSplit = 0.2
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.Fit == nil {
		trainer := NewTrainer[B](
			TrainerConfig{Epochs: cfg.Epochs, Objective: cfg.Objective},
			NewModelCheckpoint[B](cfg.Objective, true),
		)
		cfg.Fit = trainer.Fit
	}

	space := cfg.Space
	if space == nil {
		space = NewHyperParameters()
	}

	return &Tuner[B]{
		cfg:   cfg,
		space: space,
	}, nil
}

// Search runs trials until MaxTrials is reached, the oracle is
// exhausted, or ctx is cancelled.
func (t *Tuner[B]) Search(ctx context.Context) error {
	train, val, err := t.cfg.Dataset.Split(t.cfg.ValSplit)
	if err != nil {
		return fmt.Errorf("tuner: %w", err)
	}

	log := t.cfg.Log
	log.Info("search started",
		"max_trials", t.cfg.MaxTrials,
		"objective", t.cfg.Objective.Metric,
		"direction", t.cfg.Objective.Direction,
		"train_samples", train.Len(),
		"val_samples", val.Len(),
	)

	for i := 0; i < t.cfg.MaxTrials; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		values, err := t.cfg.Oracle.Ask(t.space.Specs())
		if errors.Is(err, ErrExhausted) {
			log.Info("search space exhausted", "trials", len(t.trials))
			break
		}
		if err != nil {
			return fmt.Errorf("oracle: %w", err)
		}

		trial := NewTrial(values)
		t.trials = append(t.trials, trial)
		log.Info("trial started", "trial", trial.ID, "number", i, "values", values)

		score, err := t.runTrial(ctx, trial, train, val, i)
		if err != nil {
			if ctx.Err() != nil {
				trial.Fail(err)
				t.persist(trial)
				return err
			}
			trial.Fail(err)
			t.persist(trial)
			log.Warn("trial failed", "trial", trial.ID, "error", err)
			continue
		}

		trial.Complete(score)
		t.persist(trial)
		if t.best == nil || t.cfg.Objective.Better(score, t.best.Score) {
			t.best = trial
		}
		log.Info("trial completed", "trial", trial.ID, "score", score, "best", t.best.Score)
	}

	if t.best != nil {
		log.Info("search finished", "trials", len(t.trials), "best_trial", t.best.ID, "best_score", t.best.Score)
	} else {
		log.Warn("search finished with no completed trials", "trials", len(t.trials))
	}
	return nil
}

func (t *Tuner[B]) runTrial(ctx context.Context, trial *Trial, train, val *data.Dataset, number int) (float64, error) {
	hp := t.space.ForTrial(trial.Values)
	backend := t.cfg.NewBackend()

	model, err := t.cfg.Builder(hp, backend)
	if err != nil {
		return 0, fmt.Errorf("builder: %w", err)
	}

	dir := ""
	if t.cfg.Store != nil {
		if dir, err = t.cfg.Store.TrialDir(trial.ID); err != nil {
			return 0, err
		}
	}

	run := &TrialRun[B]{
		Trial:   trial,
		HP:      hp,
		Model:   model,
		Backend: backend,
		Train:   train,
		Val:     val,
		Rng:     rand.New(rand.NewSource(t.cfg.Seed + int64(number))),
		Dir:     dir,
		Log:     t.cfg.Log,
	}
	return t.cfg.Fit(ctx, run)
}

func (t *Tuner[B]) persist(trial *Trial) {
	if t.cfg.Store == nil {
		return
	}
	if err := t.cfg.Store.Save(trial); err != nil {
		t.cfg.Log.Error("failed to persist trial", "trial", trial.ID, "error", err)
	}
}

// Trials returns all trials in execution order.
func (t *Tuner[B]) Trials() []*Trial {
	return t.trials
}

// BestTrial returns the best completed trial, or nil if none completed.
// Ties keep the earlier trial.
func (t *Tuner[B]) BestTrial() *Trial {
	return t.best
}

// BestValues returns the hyperparameter values of the best trial.
func (t *Tuner[B]) BestValues() map[string]any {
	if t.best == nil {
		return nil
	}
	return t.best.Values
}

// Space returns the declared search space, which grows as builders and
// fits declare parameters.
func (t *Tuner[B]) Space() *HyperParameters {
	return t.space
}
