package agentcli

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Runner invokes the generation backend binary once per call. The
// backend is expected to speak the agent CLI protocol: prompt as the
// final argument, JSON result on stdout.
type Runner struct {
	Bin     string
	Timeout time.Duration
}

// AgentResponse represents the JSON response from the agent binary
type AgentResponse struct {
	Type       string  `json:"type"`
	Subtype    string  `json:"subtype"`
	IsError    bool    `json:"is_error"`
	DurationMs int     `json:"duration_ms"`
	Result     string  `json:"result"`
	SessionID  string  `json:"session_id"`
	TotalCost  float64 `json:"total_cost_usd"`
	UUID       string  `json:"uuid"`
}

// Generate runs the backend with the prompt and optional prior examples
// folded in. The call is bounded by the configured timeout.
func (r Runner) Generate(ctx context.Context, prompt string, examples []string) (string, error) {
	args := []string{"-p", "--output-format", "json", buildPrompt(prompt, examples)}

	cctx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(cctx, r.Bin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("agent execution failed: %w (output: %s)", err, string(out))
	}

	var response AgentResponse
	if err := json.Unmarshal(out, &response); err != nil {
		// Not JSON; treat the raw output as the result
		return string(out), nil
	}
	if response.IsError {
		return "", fmt.Errorf("agent returned error: %s", response.Result)
	}
	return response.Result, nil
}

// buildPrompt prepends prior examples as reference material
func buildPrompt(prompt string, examples []string) string {
	if len(examples) == 0 {
		return prompt
	}
	var b strings.Builder
	b.WriteString("Reference examples from earlier work:\n\n")
	for i, ex := range examples {
		b.WriteString(fmt.Sprintf("Example %d:\n%s\n\n", i+1, ex))
	}
	b.WriteString(prompt)
	return b.String()
}
