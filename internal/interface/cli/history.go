package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kaizenloop/kaizen/internal/domain/model"
	"github.com/kaizenloop/kaizen/internal/infrastructure/di"
)

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <goal-id>",
		Short: "Show the recorded cycles of a goal, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goalID, err := model.NewGoalIDFromString(args[0])
			if err != nil {
				return err
			}

			container, err := di.NewContainerWithConfig(globalConfig)
			if err != nil {
				return err
			}
			defer container.Close()

			history, err := container.SnapshotStore().LoadHistory(cmd.Context(), goalID)
			if err != nil {
				return err
			}
			if len(history) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no recorded cycles")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, snap := range history {
				outcome := "rejected"
				switch {
				case snap.Accepted:
					outcome = "accepted"
				case snap.Aborted:
					outcome = "aborted"
				}
				fmt.Fprintf(out, "%s  attempt %d  %-8s  %s\n",
					snap.RecordedAt.UTC().Format(time.RFC3339), snap.Attempt, outcome, snap.RecordID)
				if reason, ok := snap.Metadata["abort_reason"]; ok {
					fmt.Fprintf(out, "    reason: %s\n", reason)
				}
			}
			return nil
		},
	}
}
