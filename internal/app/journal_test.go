package app

import (
	"path/filepath"
	"testing"
)

func TestJournalAppendAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "var", "journal.ndjson")
	w := NewJournalWriter(path)

	if err := w.Append(&JournalEntry{GoalID: "g1", Attempt: 1, Stage: "review", Decision: "accepted", ElapsedMs: 120}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := w.Append(&JournalEntry{GoalID: "g2", Attempt: 1, Stage: "change_generation", Error: "backend unreachable"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	entries, err := w.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Load() = %d entries, want 2", len(entries))
	}
	if entries[0].GoalID != "g1" || entries[1].GoalID != "g2" {
		t.Errorf("order = [%s %s], want append order", entries[0].GoalID, entries[1].GoalID)
	}
	if entries[0].TS == "" {
		t.Error("Normalize must fill the timestamp")
	}
	if entries[0].Artifacts == nil {
		t.Error("Normalize must fill artifacts with an empty slice")
	}
}

func TestJournalLoadMissingFile(t *testing.T) {
	w := NewJournalWriter(filepath.Join(t.TempDir(), "absent.ndjson"))
	entries, err := w.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if entries != nil {
		t.Errorf("Load() = %v, want nil for missing file", entries)
	}
}
