package repository

import (
	"context"

	"github.com/kaizenloop/kaizen/internal/domain/model"
	"github.com/kaizenloop/kaizen/internal/domain/model/snapshot"
)

// SnapshotStore persists one immutable record per (goal, cycle) execution.
// Records are published atomically: a partially written record must never
// be visible to LoadHistory.
type SnapshotStore interface {
	// HasAccepted reports whether the goal already has an accepted record
	HasAccepted(ctx context.Context, goalID model.GoalID) (bool, error)

	// Record durably persists a snapshot and returns its record ID.
	// A storage failure here is fatal to the current cycle.
	Record(ctx context.Context, snap *snapshot.Snapshot) (string, error)

	// LoadHistory returns all records for a goal, oldest first
	LoadHistory(ctx context.Context, goalID model.GoalID) ([]*snapshot.Snapshot, error)
}
