package reviewer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaizenloop/kaizen/internal/application/port/output"
	"github.com/kaizenloop/kaizen/internal/domain/model/cycle"
	goalmodel "github.com/kaizenloop/kaizen/internal/domain/model/goal"
)

// AgentReviewer critiques a proposed change through the generation
// backend. The verdict is parsed from a JSON object; a free-form answer
// falls back to a keyword heuristic.
type AgentReviewer struct {
	generator output.Generator
}

// New creates a reviewer backed by the given generator
func New(generator output.Generator) *AgentReviewer {
	return &AgentReviewer{generator: generator}
}

type verdict struct {
	Accepted bool   `json:"accepted"`
	Feedback string `json:"feedback"`
}

// Evaluate asks the backend to critique the change and parses its verdict
func (r *AgentReviewer) Evaluate(ctx context.Context, g *goalmodel.Goal, tasks []cycle.Task, artifact string, validation *cycle.ValidationResult) (*output.Review, error) {
	response, err := r.generator.Generate(ctx, buildPrompt(g, tasks, artifact, validation), nil)
	if err != nil {
		return nil, fmt.Errorf("review change: %w", err)
	}
	return parseVerdict(response), nil
}

func buildPrompt(g *goalmodel.Goal, tasks []cycle.Task, artifact string, validation *cycle.ValidationResult) string {
	var b strings.Builder
	b.WriteString("Review this change for correctness and fit to the goal.\n")
	b.WriteString("Goal: " + g.Description() + "\n\nTasks:\n")
	for _, t := range tasks {
		b.WriteString(fmt.Sprintf("- [%s] %s (%s)\n", t.ChangeType, t.Description, t.FilePath))
	}
	b.WriteString("\nChange:\n" + artifact + "\n")
	if validation != nil {
		status := "failed"
		if validation.Passed {
			status = "passed"
		}
		b.WriteString("\nValidation " + status)
		if validation.Detail != "" {
			b.WriteString(":\n" + validation.Detail)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nRespond with a JSON object: {\"accepted\": true|false, \"feedback\": \"...\"}.\n")
	return b.String()
}

// parseVerdict extracts the verdict object from the response. When no
// JSON object parses, an explicit leading ACCEPT/REJECT decides and
// anything else is a rejection with the raw answer as feedback.
func parseVerdict(response string) *output.Review {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start >= 0 && end > start {
		var v verdict
		if err := json.Unmarshal([]byte(response[start:end+1]), &v); err == nil {
			return &output.Review{Accepted: v.Accepted, Feedback: v.Feedback}
		}
	}

	trimmed := strings.TrimSpace(response)
	upper := strings.ToUpper(trimmed)
	if strings.HasPrefix(upper, "ACCEPT") {
		return &output.Review{Accepted: true, Feedback: trimmed}
	}
	return &output.Review{Accepted: false, Feedback: trimmed}
}
