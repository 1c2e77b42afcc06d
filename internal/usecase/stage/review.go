package stage

import (
	"context"
	"fmt"

	appconfig "github.com/kaizenloop/kaizen/internal/app/config"
	"github.com/kaizenloop/kaizen/internal/application/port/output"
	"github.com/kaizenloop/kaizen/internal/domain/model/cycle"
)

// MetadataKeyReviewFeedback is where review feedback lands in the
// context metadata
const MetadataKeyReviewFeedback = "review_feedback"

// Review evaluates the acceptance of the proposed change. A change is
// accepted only when the review policy approves it and validation
// passed; a rejected change is reverted from the working tree.
type Review struct {
	cfg      appconfig.Config
	reviewer output.ReviewPolicy
	applier  output.ChangeApplier
}

// NewReview creates the review stage
func NewReview(cfg appconfig.Config, reviewer output.ReviewPolicy, applier output.ChangeApplier) *Review {
	return &Review{cfg: cfg, reviewer: reviewer, applier: applier}
}

// Name identifies the stage
func (s *Review) Name() string {
	return NameReview
}

// Execute decides acceptance and reverts the tree on rejection
func (s *Review) Execute(ctx context.Context, c *cycle.Context) error {
	review, err := s.reviewer.Evaluate(ctx, c.Goal(), c.Tasks, c.Patch, c.Validation)
	if err != nil {
		return fmt.Errorf("evaluate change: %w", err)
	}
	c.SetMetadata(MetadataKeyReviewFeedback, review.Feedback)

	validationPassed := c.Validation != nil && c.Validation.Passed
	if review.Accepted && validationPassed {
		c.Accepted = true
		return nil
	}

	c.Accepted = false
	if err := s.applier.Revert(ctx, s.cfg.Workdir()); err != nil {
		return fmt.Errorf("revert rejected change: %w", err)
	}
	c.Abort("change rejected by review")
	return nil
}
