package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kaizenloop/kaizen/internal/infrastructure/di"
)

func newLearningCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learning",
		Short: "Inspect the learning log",
		RunE:  func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.AddCommand(newLearningListCmd())
	return cmd
}

func newLearningListCmd() *cobra.Command {
	var (
		goalFilter string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List learning entries most relevant to a goal description",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := di.NewContainerWithConfig(globalConfig)
			if err != nil {
				return err
			}
			defer container.Close()

			entries, err := container.LearningLog().Query(cmd.Context(), goalFilter, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no learning entries")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, e := range entries {
				outcome := "rejected"
				if e.Accepted {
					outcome = "accepted"
				}
				tests := "red"
				if e.TestPassed {
					tests = "green"
				}
				fmt.Fprintf(out, "%s  %-8s tests=%-5s  %s\n",
					e.RecordedAt.UTC().Format(time.RFC3339), outcome, tests, e.GoalDesc)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&goalFilter, "goal", "", "goal description used for relevance ranking")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum entries to show")
	return cmd
}
