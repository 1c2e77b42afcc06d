package repository

import (
	"context"

	"github.com/kaizenloop/kaizen/internal/domain/model/goal"
)

// ParseWarning describes one malformed entry skipped while loading goals
type ParseWarning struct {
	Index  int    // Position of the entry in the backing source
	Reason string // Why the entry was rejected
}

// GoalRepository manages the durable, mutable list of goal entities.
// A missing backing source is an empty queue, not an error. Malformed
// entries are reported as warnings and skipped; they never abort a load.
type GoalRepository interface {
	// LoadAll retrieves all goals in source order
	LoadAll(ctx context.Context) ([]*goal.Goal, []ParseWarning, error)

	// SaveAll persists the full goal list, replacing the previous state
	SaveAll(ctx context.Context, goals []*goal.Goal) error

	// Append adds a new goal to the backing source
	Append(ctx context.Context, g *goal.Goal) error
}
