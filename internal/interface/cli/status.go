package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kaizenloop/kaizen/internal/app"
	"github.com/kaizenloop/kaizen/internal/domain/model"
	"github.com/kaizenloop/kaizen/internal/infrastructure/di"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the goal queue and its progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := di.NewContainerWithConfig(globalConfig)
			if err != nil {
				return err
			}
			defer container.Close()

			manager := container.GoalManager()
			if err := manager.Load(cmd.Context()); err != nil {
				return err
			}

			counts := map[model.GoalStatus]int{}
			out := cmd.OutOrStdout()
			for _, g := range manager.Goals() {
				counts[g.Status()]++
				line := fmt.Sprintf("%-12s %s  %s", g.Status(), g.ID(), g.Description())
				if g.Outcome() != "" {
					line += "  (" + g.Outcome() + ")"
				}
				fmt.Fprintln(out, line)
			}

			fmt.Fprintf(out, "\n%d goals: %d pending, %d in progress, %d completed, %d skipped\n",
				len(manager.Goals()),
				counts[model.GoalStatusPending],
				counts[model.GoalStatusInProgress],
				counts[model.GoalStatusCompleted],
				counts[model.GoalStatusSkipped],
			)

			printRecentCycles(out, container.Journal(), 5)
			return nil
		},
	}
}

// printRecentCycles appends the tail of the run journal to the report.
// A missing or unreadable journal just means nothing has run yet.
func printRecentCycles(out io.Writer, journal *app.JournalWriter, n int) {
	entries, err := journal.Load()
	if err != nil || len(entries) == 0 {
		return
	}
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}

	fmt.Fprintln(out, "\nrecent cycles:")
	for _, e := range entries {
		line := fmt.Sprintf("  %s  goal=%s attempt=%d stage=%s decision=%s", e.TS, e.GoalID, e.Attempt, e.Stage, e.Decision)
		if e.Error != "" {
			line += " error=" + e.Error
		}
		fmt.Fprintln(out, line)
	}
}
