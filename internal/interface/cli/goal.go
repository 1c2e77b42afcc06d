package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kaizenloop/kaizen/internal/domain/model"
	goalmodel "github.com/kaizenloop/kaizen/internal/domain/model/goal"
	"github.com/kaizenloop/kaizen/internal/infrastructure/di"
)

func newGoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage the goal queue",
		RunE:  func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.AddCommand(newGoalRegisterCmd())
	cmd.AddCommand(newGoalListCmd())
	return cmd
}

func newGoalRegisterCmd() *cobra.Command {
	var explicitID string

	cmd := &cobra.Command{
		Use:   "register <description>",
		Short: "Append a new pending goal to the queue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.TrimSpace(strings.Join(args, " "))
			if description == "" {
				return fmt.Errorf("goal description cannot be empty")
			}

			id := model.NewGoalID()
			if explicitID != "" {
				parsed, err := model.NewGoalIDFromString(explicitID)
				if err != nil {
					return err
				}
				id = parsed
			}

			container, err := di.NewContainerWithConfig(globalConfig)
			if err != nil {
				return err
			}
			defer container.Close()

			g, err := goalmodel.NewGoal(id, description)
			if err != nil {
				return err
			}
			if err := container.GoalRepository().Append(cmd.Context(), g); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "registered goal %s\n", g.ID())
			return nil
		},
	}

	cmd.Flags().StringVar(&explicitID, "id", "", "explicit goal ID (default: generated)")
	return cmd
}

func newGoalListCmd() *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List goals, optionally filtered by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter model.GoalStatus
			if statusFilter != "" {
				parsed, err := model.ParseGoalStatus(statusFilter)
				if err != nil {
					return err
				}
				filter = parsed
			}

			container, err := di.NewContainerWithConfig(globalConfig)
			if err != nil {
				return err
			}
			defer container.Close()

			manager := container.GoalManager()
			if err := manager.Load(cmd.Context()); err != nil {
				return err
			}

			for _, g := range manager.Goals() {
				if filter != "" && g.Status() != filter {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12s %s\n", g.ID(), g.Status(), g.Description())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "only show goals with this status (PENDING, IN_PROGRESS, COMPLETED, SKIPPED)")
	return cmd
}
