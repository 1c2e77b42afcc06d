package stage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	appconfig "github.com/kaizenloop/kaizen/internal/app/config"
	"github.com/kaizenloop/kaizen/internal/application/port/output"
	"github.com/kaizenloop/kaizen/internal/domain/model/cycle"
)

// ProblemIdentification derives granular tasks from the goal. It loads
// the code view first; an unloadable code context is a collaborator
// failure, not a guessable condition.
type ProblemIdentification struct {
	cfg       appconfig.Config
	generator output.Generator
	code      output.CodeSource
}

// NewProblemIdentification creates the problem identification stage
func NewProblemIdentification(cfg appconfig.Config, generator output.Generator, code output.CodeSource) *ProblemIdentification {
	return &ProblemIdentification{cfg: cfg, generator: generator, code: code}
}

// Name identifies the stage
func (s *ProblemIdentification) Name() string {
	return NameProblemIdentification
}

// Execute loads the code view and derives the task list
func (s *ProblemIdentification) Execute(ctx context.Context, c *cycle.Context) error {
	view, err := s.code.Load(ctx, s.cfg.Workdir())
	if err != nil {
		return fmt.Errorf("load code context: %w", err)
	}
	c.CodeView = view

	// A resumed cycle already carries tasks from its latest snapshot
	if len(c.Tasks) > 0 {
		c.SetMetadata("tasks_resumed", fmt.Sprintf("%d", len(c.Tasks)))
		return nil
	}

	prompt := s.buildPrompt(c)
	response, err := s.generator.Generate(ctx, prompt, nil)
	if err != nil {
		return fmt.Errorf("identify tasks: %w", err)
	}

	tasks := parseTasks(response)
	if len(tasks) == 0 {
		c.Abort("no tasks identified for goal")
		return nil
	}
	c.Tasks = tasks
	return nil
}

func (s *ProblemIdentification) buildPrompt(c *cycle.Context) string {
	var b strings.Builder
	b.WriteString("Identify the concrete changes needed to achieve this goal.\n")
	b.WriteString("Goal: " + c.Goal().Description() + "\n\n")
	b.WriteString("Respond with a JSON array of objects with keys ")
	b.WriteString(`"file_path", "change_type" (add|modify|delete) and "description".`)
	b.WriteString("\n\nCurrent code:\n" + c.CodeView + "\n")
	return b.String()
}

// parseTasks extracts tasks from the backend response. It prefers the
// JSON array shape; bullet lines are the fallback for free-form answers.
func parseTasks(response string) []cycle.Task {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start >= 0 && end > start {
		var tasks []cycle.Task
		if err := json.Unmarshal([]byte(response[start:end+1]), &tasks); err == nil {
			valid := tasks[:0]
			for _, t := range tasks {
				if t.Description == "" {
					continue
				}
				if !t.ChangeType.IsValid() {
					t.ChangeType = cycle.ChangeTypeModify
				}
				valid = append(valid, t)
			}
			if len(valid) > 0 {
				return valid
			}
		}
	}

	var tasks []cycle.Task
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- ") {
			continue
		}
		desc := strings.TrimSpace(strings.TrimPrefix(line, "- "))
		if desc == "" {
			continue
		}
		tasks = append(tasks, cycle.Task{ChangeType: cycle.ChangeTypeModify, Description: desc})
	}
	return tasks
}
