package cli

import (
	"github.com/spf13/cobra"

	"github.com/kaizenloop/kaizen/internal/app"
	"github.com/kaizenloop/kaizen/internal/app/config"
	"github.com/kaizenloop/kaizen/internal/buildinfo"
	infraconfig "github.com/kaizenloop/kaizen/internal/infra/config"
)

// globalConfig holds the loaded configuration for all commands
var globalConfig config.Config

// NewRoot builds the kaizen command tree
func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kaizen",
		Short: "Autonomous improvement cycles for a working tree",
		Long: `kaizen runs improvement goals through a fixed pipeline:
identify tasks, generate a change, validate it, and review it.
Accepted changes stay in the working tree; everything is recorded
under the kaizen home directory.`,
		Version:      buildinfo.GetVersion(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Priority: setting.yaml > ENV > defaults
			paths := app.ResolvePaths()
			cfg, err := infraconfig.LoadSettings(paths.Setting)
			if err != nil {
				return err
			}
			globalConfig = cfg
			app.SetLogger(app.NewLogger(cfg.LogLevel()))
			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newGoalCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newLearningCmd())
	return cmd
}
