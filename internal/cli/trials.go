package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ab-obi/tf-models/internal/tune"
)

func trialsCmd() *cobra.Command {
	var outputDir string
	var project string
	var byScore bool

	c := &cobra.Command{
		Use:   "trials",
		Short: "List persisted trials of a project",
		RunE: func(*cobra.Command, []string) error {
			store := tune.NewTrialStore(outputDir, project)
			trials, err := store.Load()
			if err != nil {
				return err
			}
			if len(trials) == 0 {
				fmt.Println("(no trials found)")
				return nil
			}

			if byScore {
				sort.SliceStable(trials, func(i, j int) bool {
					return trials[i].Score < trials[j].Score
				})
			}

			fmt.Printf("Project: %s (%d trials)\n\n", project, len(trials))
			for _, t := range trials {
				switch t.Status {
				case tune.TrialCompleted:
					fmt.Printf("- %s  score=%-10.6g  %v\n", t.ID, t.Score, t.Values)
				default:
					fmt.Printf("- %s  %s  %v\n", t.ID, t.Status, t.Values)
				}
			}
			return nil
		},
	}

	c.Flags().StringVarP(&outputDir, "output", "o", "tune-output", "Search output directory")
	c.Flags().StringVarP(&project, "project", "p", "default", "Project name")
	c.Flags().BoolVar(&byScore, "by-score", false, "Sort by score instead of start time")
	return c
}
