// Package cli wires the tfmodels command line: running searches from
// YAML configs, listing persisted trials and printing build info.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ab-obi/tf-models/internal/logger"
)

// Execute runs the root command, exiting non-zero on error.
func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the tfmodels command tree.
func NewRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:           "tfmodels",
		Short:         "Hyperparameter search for dense classifiers",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(*cobra.Command, []string) {
			logger.Setup(os.Stderr, debug)
		},
	}
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging")

	cmd.AddCommand(tuneCmd())
	cmd.AddCommand(trialsCmd())
	cmd.AddCommand(versionCmd())
	return cmd
}
