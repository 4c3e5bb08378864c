// Package tune implements hyperparameter search over model builders.
//
// A search is driven by three pieces:
//
//   - Builder: maps sampled hyperparameters to a fresh model.
//   - FitFunc: trains one model and returns its objective score. The
//     default trainer reads batch_size, learning_rate and lr_decay from
//     the hyperparameters, runs a fixed number of epochs of manual
//     forward/backward and scores the trial with its best per-epoch
//     validation loss.
//   - Oracle: suggests the next hyperparameter values. RandomSearch and
//     GridSearch are provided.
//
// The Tuner wires them together: each trial gets a fresh model and
// optimizer, its score and values are persisted as JSON under the
// project directory, and the best trial is tracked under the objective
// direction.
//
// Example:
//
//	tuner, err := tune.NewTuner(tune.TunerConfig[*Backend]{
//	    Oracle:     tune.NewRandomSearch(42),
//	    Builder:    buildModel,
//	    Objective:  tune.MinObjective("val_loss"),
//	    MaxTrials:  10,
//	    Dataset:    dataset,
//	    NewBackend: func() *Backend { return autodiff.New(cpu.New()) },
//	})
//	if err := tuner.Search(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	best := tuner.BestTrial()
package tune
