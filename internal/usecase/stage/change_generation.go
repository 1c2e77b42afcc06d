package stage

import (
	"context"
	"fmt"
	"strings"

	appconfig "github.com/kaizenloop/kaizen/internal/app/config"
	"github.com/kaizenloop/kaizen/internal/application/port/output"
	"github.com/kaizenloop/kaizen/internal/domain/model/cycle"
	"github.com/kaizenloop/kaizen/internal/domain/repository"
)

// ChangeGeneration produces a patch for the identified tasks and applies
// it to the working tree. Prior accepted examples from the learning log
// bias the generation.
type ChangeGeneration struct {
	cfg       appconfig.Config
	generator output.Generator
	applier   output.ChangeApplier
	learning  repository.LearningLog
}

// NewChangeGeneration creates the change generation stage
func NewChangeGeneration(cfg appconfig.Config, generator output.Generator, applier output.ChangeApplier, learning repository.LearningLog) *ChangeGeneration {
	return &ChangeGeneration{cfg: cfg, generator: generator, applier: applier, learning: learning}
}

// Name identifies the stage
func (s *ChangeGeneration) Name() string {
	return NameChangeGeneration
}

// Execute generates a unified diff and applies it to the workdir
func (s *ChangeGeneration) Execute(ctx context.Context, c *cycle.Context) error {
	if len(c.Tasks) == 0 {
		c.Abort("no tasks to implement")
		return nil
	}

	examples, err := s.priorExamples(ctx, c)
	if err != nil {
		return fmt.Errorf("query learning log: %w", err)
	}

	patch, err := s.generator.Generate(ctx, s.buildPrompt(c), examples)
	if err != nil {
		return fmt.Errorf("generate change: %w", err)
	}

	patch = normalizePatch(patch)
	if patch == "" {
		c.Abort("no usable change generated")
		return nil
	}
	c.Patch = patch

	if err := s.applier.Apply(ctx, patch, s.cfg.Workdir()); err != nil {
		c.SetMetadata("apply_error", err.Error())
		if revertErr := s.applier.Revert(ctx, s.cfg.Workdir()); revertErr != nil {
			return fmt.Errorf("revert after failed apply: %w", revertErr)
		}
		c.Abort("generated change failed to apply")
		return nil
	}

	return nil
}

func (s *ChangeGeneration) priorExamples(ctx context.Context, c *cycle.Context) ([]string, error) {
	entries, err := s.learning.Query(ctx, c.Goal().Description(), s.cfg.LearningLimit())
	if err != nil {
		return nil, err
	}

	examples := make([]string, 0, len(entries))
	for _, e := range entries {
		outcome := "rejected"
		if e.Accepted {
			outcome = "accepted"
		}
		examples = append(examples, fmt.Sprintf("Goal: %s\nOutcome: %s\nPatch:\n%s", e.GoalDesc, outcome, e.Patch))
	}
	return examples, nil
}

func (s *ChangeGeneration) buildPrompt(c *cycle.Context) string {
	var b strings.Builder
	b.WriteString("Produce a unified diff implementing these tasks.\n")
	b.WriteString("Goal: " + c.Goal().Description() + "\n\nTasks:\n")
	for _, t := range c.Tasks {
		b.WriteString(fmt.Sprintf("- [%s] %s (%s)\n", t.ChangeType, t.Description, t.FilePath))
	}
	b.WriteString("\nCurrent code:\n" + c.CodeView + "\n")
	b.WriteString("\nOutput only the diff, starting with '---'.\n")
	return b.String()
}

// normalizePatch strips any preamble the backend added before the diff
func normalizePatch(patch string) string {
	patch = strings.TrimSpace(patch)
	if patch == "" || strings.HasPrefix(patch, "---") {
		return patch
	}
	if idx := strings.Index(patch, "--- "); idx >= 0 {
		return patch[idx:]
	}
	return ""
}
