package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kaizenloop/kaizen/internal/app"
)

const defaultSetting = `# kaizen configuration
workdir: .
agent_bin: claude
timeout_sec: 300
max_attempts: 3
max_cycles: 0
validate_command: go test ./...
learning:
  backend: sqlite
  limit: 5
  ranker: recency
log_level: info
`

const defaultGoals = `goals: []
`

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the kaizen home directory and default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := app.ResolvePaths()

			for _, dir := range []string{paths.Etc, paths.Var, paths.Snapshots} {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create %s: %w", dir, err)
				}
			}

			created := 0
			for path, content := range map[string]string{
				paths.Setting: defaultSetting,
				paths.Goals:   defaultGoals,
			} {
				if _, err := os.Stat(path); err == nil {
					continue
				}
				if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				created++
			}

			if created == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already initialized\n", paths.Home)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "initialized %s\n", paths.Home)
			}
			return nil
		},
	}
}
