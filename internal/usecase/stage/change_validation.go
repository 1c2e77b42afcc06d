package stage

import (
	"context"
	"fmt"

	appconfig "github.com/kaizenloop/kaizen/internal/app/config"
	"github.com/kaizenloop/kaizen/internal/application/port/output"
	"github.com/kaizenloop/kaizen/internal/domain/model/cycle"
)

// ChangeValidation runs the configured validation against the working
// tree with the proposed change applied. A failed validation is an
// expected negative outcome recorded in the context, never an error.
type ChangeValidation struct {
	cfg       appconfig.Config
	validator output.ValidationRunner
}

// NewChangeValidation creates the change validation stage
func NewChangeValidation(cfg appconfig.Config, validator output.ValidationRunner) *ChangeValidation {
	return &ChangeValidation{cfg: cfg, validator: validator}
}

// Name identifies the stage
func (s *ChangeValidation) Name() string {
	return NameChangeValidation
}

// Execute runs validation and records the result
func (s *ChangeValidation) Execute(ctx context.Context, c *cycle.Context) error {
	if c.Patch == "" {
		c.Abort("no change to validate")
		return nil
	}

	result, err := s.validator.Run(ctx, s.cfg.Workdir())
	if err != nil {
		return fmt.Errorf("run validation: %w", err)
	}
	c.Validation = result
	return nil
}
