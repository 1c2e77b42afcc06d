package gitcli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Per-file and total caps on the materialized code view. The view is
// prompt input, not an archive; oversized files are elided.
const (
	maxFileBytes = 32 * 1024
	maxViewBytes = 256 * 1024
)

// Workspace adapts a git working tree as both the code source and the
// change applier. Revert restores the tree to HEAD including untracked
// files created by a partial apply.
type Workspace struct{}

// New creates a git workspace adapter
func New() *Workspace {
	return &Workspace{}
}

// Load materializes a concatenated view of the tracked files
func (w *Workspace) Load(ctx context.Context, workdir string) (string, error) {
	out, err := run(ctx, workdir, "ls-files")
	if err != nil {
		return "", fmt.Errorf("list tracked files: %w", err)
	}

	var b strings.Builder
	for _, name := range strings.Split(strings.TrimSpace(out), "\n") {
		if name == "" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(workdir, name))
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		if len(data) > maxFileBytes || !isText(data) {
			fmt.Fprintf(&b, "== %s == (elided, %d bytes)\n\n", name, len(data))
			continue
		}
		fmt.Fprintf(&b, "== %s ==\n%s\n\n", name, data)
		if b.Len() > maxViewBytes {
			b.WriteString("(view truncated)\n")
			break
		}
	}
	return b.String(), nil
}

// Apply applies a unified diff to the working tree
func (w *Workspace) Apply(ctx context.Context, artifact string, workdir string) error {
	cmd := exec.CommandContext(ctx, "git", "-C", workdir, "apply", "--whitespace=nowarn", "-")
	cmd.Stdin = strings.NewReader(ensureTrailingNewline(artifact))
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git apply: %w (output: %s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Revert discards all uncommitted changes, tracked and untracked
func (w *Workspace) Revert(ctx context.Context, workdir string) error {
	if _, err := run(ctx, workdir, "checkout", "--", "."); err != nil {
		return fmt.Errorf("git checkout: %w", err)
	}
	if _, err := run(ctx, workdir, "clean", "-fd"); err != nil {
		return fmt.Errorf("git clean: %w", err)
	}
	return nil
}

func run(ctx context.Context, workdir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", workdir}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w (output: %s)", err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// isText treats NUL bytes as the binary marker, the same heuristic git uses
func isText(data []byte) bool {
	for _, b := range data {
		if b == 0 {
			return false
		}
	}
	return true
}

func ensureTrailingNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
