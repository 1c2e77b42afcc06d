package runcli

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kaizenloop/kaizen/internal/domain/model/cycle"
)

// Output kept per validation run; enough to diagnose a failure without
// flooding snapshots
const maxDetailBytes = 16 * 1024

// Runner executes the configured validation command through the shell.
// A non-zero exit is a red result, not an error; errors are reserved
// for the command being unrunnable.
type Runner struct {
	Command string
	Timeout time.Duration
}

// Run executes the validation command in the workdir
func (r Runner) Run(ctx context.Context, workdir string) (*cycle.ValidationResult, error) {
	if strings.TrimSpace(r.Command) == "" {
		return nil, errors.New("validation command is empty")
	}

	cctx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(cctx, "sh", "-c", r.Command)
	cmd.Dir = workdir
	out, err := cmd.CombinedOutput()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &cycle.ValidationResult{Passed: false, Detail: clip(string(out))}, nil
		}
		return nil, fmt.Errorf("run validation command: %w", err)
	}
	return &cycle.ValidationResult{Passed: true, Detail: clip(string(out))}, nil
}

// clip keeps the tail of the output, dropping any leading bytes of a
// rune split by the byte-offset cut
func clip(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxDetailBytes {
		return s
	}
	s = s[len(s)-maxDetailBytes:]
	for len(s) > 0 && !utf8.RuneStart(s[0]) {
		s = s[1:]
	}
	return s
}
