package output

import (
	"context"

	"github.com/kaizenloop/kaizen/internal/domain/model/cycle"
)

// ValidationRunner runs the configured validation (typically a test
// command) against the working tree. A red run is a normal result, not
// an error; errors are reserved for the runner itself failing.
type ValidationRunner interface {
	Run(ctx context.Context, workdir string) (*cycle.ValidationResult, error)
}
