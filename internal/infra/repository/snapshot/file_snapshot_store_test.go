package snapshot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/kaizenloop/kaizen/internal/domain/model"
	snapmodel "github.com/kaizenloop/kaizen/internal/domain/model/snapshot"
)

const snapshotsRoot = ".kaizen/var/snapshots"

func newStore() *FileSnapshotStore {
	return NewFileSnapshotStore(afero.NewMemMapFs(), snapshotsRoot)
}

func snapFor(goalID string, at time.Time, accepted bool) *snapmodel.Snapshot {
	return &snapmodel.Snapshot{
		GoalID:     goalID,
		GoalDesc:   "desc of " + goalID,
		Attempt:    1,
		Accepted:   accepted,
		RecordedAt: at,
	}
}

func TestRecordAndLoadHistory(t *testing.T) {
	store := newStore()
	ctx := context.Background()
	base := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

	first, err := store.Record(ctx, snapFor("g1", base, false))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	second, err := store.Record(ctx, snapFor("g1", base.Add(time.Minute), true))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if first == second {
		t.Fatal("record IDs must be unique")
	}

	goalID, _ := model.NewGoalIDFromString("g1")
	history, err := store.LoadHistory(ctx, goalID)
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("LoadHistory() = %d records, want 2", len(history))
	}

	// Oldest first
	if history[0].RecordID != first || history[1].RecordID != second {
		t.Errorf("order = [%s %s], want [%s %s]", history[0].RecordID, history[1].RecordID, first, second)
	}
	if !history[0].RecordedAt.Before(history[1].RecordedAt) {
		t.Error("history must be chronological, oldest first")
	}
}

func TestRecordIDsStayOrderedWithinOneMillisecond(t *testing.T) {
	store := newStore()
	ctx := context.Background()
	at := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

	// Same timestamp for every record, so ordering rests entirely on
	// the entropy component of the ULIDs
	var ids []string
	for i := 0; i < 20; i++ {
		id, err := store.Record(ctx, snapFor("g1", at, false))
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Fatalf("record IDs out of order: %s then %s", ids[i-1], ids[i])
		}
	}

	goalID, _ := model.NewGoalIDFromString("g1")
	history, err := store.LoadHistory(ctx, goalID)
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if len(history) != len(ids) {
		t.Fatalf("LoadHistory() = %d records, want %d", len(history), len(ids))
	}
	for i, snap := range history {
		if snap.RecordID != ids[i] {
			t.Fatalf("history[%d] = %s, want %s (record order)", i, snap.RecordID, ids[i])
		}
	}
}

func TestLoadHistoryUnknownGoal(t *testing.T) {
	store := newStore()
	goalID, _ := model.NewGoalIDFromString("never-seen")

	history, err := store.LoadHistory(context.Background(), goalID)
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if len(history) != 0 {
		t.Errorf("LoadHistory() = %d records, want 0", len(history))
	}
}

func TestHasAccepted(t *testing.T) {
	store := newStore()
	ctx := context.Background()
	base := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

	if _, err := store.Record(ctx, snapFor("g1", base, false)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	goalID, _ := model.NewGoalIDFromString("g1")
	accepted, err := store.HasAccepted(ctx, goalID)
	if err != nil {
		t.Fatalf("HasAccepted() error = %v", err)
	}
	if accepted {
		t.Error("HasAccepted() = true with only rejected records")
	}

	if _, err := store.Record(ctx, snapFor("g1", base.Add(time.Minute), true)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	accepted, err = store.HasAccepted(ctx, goalID)
	if err != nil {
		t.Fatalf("HasAccepted() error = %v", err)
	}
	if !accepted {
		t.Error("HasAccepted() = false after an accepted record")
	}
}

func TestLoadHistoryIgnoresInterruptedWrites(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFileSnapshotStore(fs, snapshotsRoot)
	ctx := context.Background()

	if _, err := store.Record(ctx, snapFor("g1", time.Now(), false)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	// A crash mid-write leaves only an unrenamed temp file
	partial := filepath.Join(snapshotsRoot, "g1", ".tmp-crashed")
	if err := afero.WriteFile(fs, partial, []byte(`{"trunc`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	goalID, _ := model.NewGoalIDFromString("g1")
	history, err := store.LoadHistory(ctx, goalID)
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if len(history) != 1 {
		t.Errorf("LoadHistory() = %d records, want 1 (temp file must be invisible)", len(history))
	}
}

func TestRecordWithoutGoalID(t *testing.T) {
	store := newStore()
	if _, err := store.Record(context.Background(), &snapmodel.Snapshot{}); err == nil {
		t.Error("Record() without goal ID expected error")
	}
}

func TestRecordsAreIsolatedPerGoal(t *testing.T) {
	store := newStore()
	ctx := context.Background()
	now := time.Now()

	if _, err := store.Record(ctx, snapFor("g1", now, true)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if _, err := store.Record(ctx, snapFor("g2", now, false)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	g2, _ := model.NewGoalIDFromString("g2")
	accepted, err := store.HasAccepted(ctx, g2)
	if err != nil {
		t.Fatalf("HasAccepted() error = %v", err)
	}
	if accepted {
		t.Error("g1's accepted record must not leak into g2's history")
	}
}
