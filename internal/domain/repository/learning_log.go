package repository

import (
	"context"

	"github.com/kaizenloop/kaizen/internal/domain/model/snapshot"
)

// LearningLog is the append-only record of cycle outcomes consulted by
// later cycles for relevant past examples. Entries are never mutated
// or deleted.
type LearningLog interface {
	// Append adds one entry; amortized O(1) in the size of the log
	Append(ctx context.Context, entry *snapshot.LearningEntry) error

	// Query returns up to limit entries most relevant to the given goal
	// description. The result order is a total order, so output is
	// deterministic for the same log state.
	Query(ctx context.Context, goalDescription string, limit int) ([]*snapshot.LearningEntry, error)
}
