package cli

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/ab-obi/tf-models/internal/autodiff"
	"github.com/ab-obi/tf-models/internal/backend/cpu"
	"github.com/ab-obi/tf-models/internal/data"
	"github.com/ab-obi/tf-models/internal/logger"
	"github.com/ab-obi/tf-models/internal/tune"
)

// backend is the training backend every CLI-driven trial runs on.
type backend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func tuneCmd() *cobra.Command {
	var configPath string
	var maxTrials int

	c := &cobra.Command{
		Use:   "tune",
		Short: "Run a hyperparameter search from a YAML config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := tune.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if maxTrials > 0 {
				cfg.MaxTrials = maxTrials
			}

			rng := rand.New(rand.NewSource(cfg.Seed))
			dataset, err := data.Blobs(data.BlobsConfig{
				Samples:     cfg.Dataset.Samples,
				NumFeatures: cfg.Dataset.Features,
				NumClasses:  cfg.Dataset.Classes,
				Spread:      cfg.Dataset.Spread,
			}, rng)
			if err != nil {
				return fmt.Errorf("dataset: %w", err)
			}

			store := tune.NewTrialStore(cfg.OutputDir, cfg.Project)
			tuner, err := tune.NewTuner(tune.TunerConfig[backend]{
				Oracle: cfg.NewOracle(),
				Builder: tune.DenseBuilder[backend](tune.DenseBuilderConfig{
					NumFeatures: cfg.Dataset.Features,
					NumClasses:  cfg.Dataset.Classes,
					Seed:        cfg.Seed,
				}),
				Objective:  cfg.Objective,
				MaxTrials:  cfg.MaxTrials,
				Epochs:     cfg.Epochs,
				Dataset:    dataset,
				ValSplit:   cfg.ValidationSplit,
				NewBackend: func() backend { return autodiff.New(cpu.New()) },
				Store:      store,
				Seed:       cfg.Seed,
				Space:      cfg.Space(),
				Log:        logger.L(),
			})
			if err != nil {
				return err
			}

			if err := tuner.Search(cmd.Context()); err != nil {
				return err
			}

			best := tuner.BestTrial()
			if best == nil {
				return fmt.Errorf("no trial completed")
			}

			fmt.Printf("Best trial: %s\n", best.ID)
			fmt.Printf("Score (%s): %g\n", cfg.Objective.Metric, best.Score)
			fmt.Println("Hyperparameters:")
			for name, value := range best.Values {
				fmt.Printf("  %s: %v\n", name, value)
			}
			fmt.Printf("Artifacts: %s\n", store.ProjectDir())
			return nil
		},
	}

	c.Flags().StringVarP(&configPath, "config", "c", "", "Path to the search config YAML (required)")
	c.Flags().IntVar(&maxTrials, "max-trials", 0, "Override the config's trial budget")
	_ = c.MarkFlagRequired("config")
	return c
}
