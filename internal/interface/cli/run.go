package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appconfig "github.com/kaizenloop/kaizen/internal/app/config"
	"github.com/kaizenloop/kaizen/internal/infrastructure/di"
	"github.com/kaizenloop/kaizen/internal/usecase/engine"
	"github.com/kaizenloop/kaizen/internal/usecase/stage"
)

func newRunCmd() *cobra.Command {
	var (
		once      bool
		maxCycles int
		failFast  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process pending goals through the improvement pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := globalConfig
			if once {
				maxCycles = 1
			}
			if maxCycles > 0 {
				cfg = withMaxCycles(cfg, maxCycles)
			}

			container, err := di.NewContainerWithConfig(cfg)
			if err != nil {
				return err
			}
			defer container.Close()

			stages, err := stage.BuildSequence(stage.DefaultSequence(), container.StageDeps())
			if err != nil {
				return err
			}

			e := engine.New(engine.Deps{
				Config:    cfg,
				Goals:     container.GoalManager(),
				Stages:    stages,
				Snapshots: container.SnapshotStore(),
				Learning:  container.LearningLog(),
				Journal:   container.Journal(),
			})
			e.SetFailFast(failFast)

			// SIGINT and SIGTERM stop the run between goals
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			res, err := e.Run(ctx)
			if res != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "run finished: %s (cycles=%d completed=%d skipped=%d)\n",
					res.Reason, res.Cycles, res.Completed, res.Skipped)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single cycle and stop")
	cmd.Flags().IntVar(&maxCycles, "max-cycles", 0, "override the cycle budget for this run (0 keeps the configured value)")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop the run on the first unexpected stage failure")
	return cmd
}

// withMaxCycles copies the configuration with an overridden cycle budget
func withMaxCycles(cfg appconfig.Config, maxCycles int) appconfig.Config {
	return appconfig.NewAppConfig(
		cfg.Home(), cfg.Workdir(), cfg.AgentBin(),
		cfg.TimeoutSec(), cfg.MaxAttempts(), maxCycles,
		cfg.ValidateCommand(), cfg.LearningBackend(),
		cfg.LearningLimit(),
		cfg.RankerName(), cfg.LogLevel(),
		cfg.ConfigSource(), cfg.SettingPath(),
	)
}
