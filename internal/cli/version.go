package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ab-obi/tf-models/internal/buildinfo"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(*cobra.Command, []string) {
			fmt.Println(buildinfo.String())
		},
	}
}
