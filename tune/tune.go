// Copyright 2025 tf-models Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tune provides the public API for hyperparameter search:
// search spaces, oracles, trials and the search driver.
//
// Example:
//
//	tuner, err := tune.NewTuner(tune.TunerConfig[*Backend]{
//	    Oracle:     tune.NewRandomSearch(42),
//	    Builder:    buildModel,
//	    MaxTrials:  10,
//	    Dataset:    dataset,
//	    NewBackend: func() *Backend { return autodiff.New(cpu.New()) },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := tuner.Search(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(tuner.BestValues())
package tune

import (
	"github.com/ab-obi/tf-models/internal/autodiff"
	"github.com/ab-obi/tf-models/internal/tune"
)

// Search space

// HyperParameters is a declared search space plus one trial's values.
type HyperParameters = tune.HyperParameters

// ParamSpec describes one declared hyperparameter.
type ParamSpec = tune.ParamSpec

// Sampling controls how Float hyperparameters are drawn.
type Sampling = tune.Sampling

// Sampling modes.
const (
	SamplingLinear = tune.SamplingLinear
	SamplingLog    = tune.SamplingLog
)

// NewHyperParameters creates an empty search space.
func NewHyperParameters() *HyperParameters {
	return tune.NewHyperParameters()
}

// Oracles

// Oracle suggests hyperparameter value sets to evaluate.
type Oracle = tune.Oracle

// ErrExhausted signals that the search space has no untried points left.
var ErrExhausted = tune.ErrExhausted

// NewRandomSearch creates a seeded random search oracle.
func NewRandomSearch(seed int64) *tune.RandomSearch {
	return tune.NewRandomSearch(seed)
}

// NewGridSearch creates an exhaustive grid search oracle.
func NewGridSearch() *tune.GridSearch {
	return tune.NewGridSearch()
}

// Trials and objectives

// Trial is one evaluation of a hyperparameter value set.
type Trial = tune.Trial

// Objective names the metric a search optimizes and its direction.
type Objective = tune.Objective

// MinObjective creates a minimization objective over metric.
func MinObjective(metric string) Objective {
	return tune.MinObjective(metric)
}

// MaxObjective creates a maximization objective over metric.
func MaxObjective(metric string) Objective {
	return tune.MaxObjective(metric)
}

// TrialStore persists finished trials as JSON under a project directory.
type TrialStore = tune.TrialStore

// NewTrialStore creates a store rooted at dir/project.
func NewTrialStore(dir, project string) *TrialStore {
	return tune.NewTrialStore(dir, project)
}

// Search driver

// Builder maps sampled hyperparameters to a fresh model.
type Builder[B autodiff.BackwardCapable] = tune.Builder[B]

// FitFunc trains one trial's model and returns its objective score.
type FitFunc[B autodiff.BackwardCapable] = tune.FitFunc[B]

// TrialRun bundles everything one trial's training needs.
type TrialRun[B autodiff.BackwardCapable] = tune.TrialRun[B]

// Callback observes a trial's training.
type Callback[B autodiff.BackwardCapable] = tune.Callback[B]

// NewModelCheckpoint creates a callback saving checkpoints into the
// trial directory.
func NewModelCheckpoint[B autodiff.BackwardCapable](objective Objective, saveBestOnly bool) *tune.ModelCheckpoint[B] {
	return tune.NewModelCheckpoint[B](objective, saveBestOnly)
}

// Trainer is the default training loop.
type Trainer[B autodiff.BackwardCapable] = tune.Trainer[B]

// TrainerConfig configures the default training loop.
type TrainerConfig = tune.TrainerConfig

// NewTrainer creates the default trainer.
func NewTrainer[B autodiff.BackwardCapable](cfg TrainerConfig, callbacks ...Callback[B]) *Trainer[B] {
	return tune.NewTrainer(cfg, callbacks...)
}

// DenseBuilderConfig configures the stock dense classifier builder.
type DenseBuilderConfig = tune.DenseBuilderConfig

// DenseBuilder returns a Builder producing a fully connected classifier
// whose depth, width, activation and dropout are hyperparameters.
func DenseBuilder[B autodiff.BackwardCapable](cfg DenseBuilderConfig) Builder[B] {
	return tune.DenseBuilder[B](cfg)
}

// Tuner drives a hyperparameter search.
type Tuner[B autodiff.BackwardCapable] = tune.Tuner[B]

// TunerConfig configures a search.
type TunerConfig[B autodiff.BackwardCapable] = tune.TunerConfig[B]

// NewTuner validates the config and creates a tuner.
func NewTuner[B autodiff.BackwardCapable](cfg TunerConfig[B]) (*Tuner[B], error) {
	return tune.NewTuner(cfg)
}

// Config is the YAML definition of a search.
type Config = tune.Config

// LoadConfig reads and validates a YAML search config.
func LoadConfig(path string) (*Config, error) {
	return tune.LoadConfig(path)
}
