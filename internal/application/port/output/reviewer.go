package output

import (
	"context"

	"github.com/kaizenloop/kaizen/internal/domain/model/cycle"
	"github.com/kaizenloop/kaizen/internal/domain/model/goal"
)

// Review is the outcome of the acceptance policy for one cycle
type Review struct {
	Accepted bool
	Feedback string
}

// ReviewPolicy decides whether a proposed change is accepted. A rejection
// is an expected negative outcome expressed through the Review value;
// errors are reserved for the policy itself failing.
type ReviewPolicy interface {
	Evaluate(ctx context.Context, g *goal.Goal, tasks []cycle.Task, artifact string, validation *cycle.ValidationResult) (*Review, error)
}
