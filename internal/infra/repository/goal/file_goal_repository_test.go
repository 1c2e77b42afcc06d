package goal

import (
	"context"
	"testing"

	"github.com/spf13/afero"

	"github.com/kaizenloop/kaizen/internal/domain/model"
	goalmodel "github.com/kaizenloop/kaizen/internal/domain/model/goal"
)

const goalsPath = ".kaizen/etc/goals.yaml"

func newRepo() *FileGoalRepository {
	return NewFileGoalRepository(afero.NewMemMapFs(), goalsPath)
}

func mustGoal(t *testing.T, id, desc string) *goalmodel.Goal {
	t.Helper()
	gid, err := model.NewGoalIDFromString(id)
	if err != nil {
		t.Fatalf("NewGoalIDFromString() error = %v", err)
	}
	g, err := goalmodel.NewGoal(gid, desc)
	if err != nil {
		t.Fatalf("NewGoal() error = %v", err)
	}
	return g
}

func TestLoadAllMissingFileIsEmptyQueue(t *testing.T) {
	repo := newRepo()

	goals, warnings, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(goals) != 0 || len(warnings) != 0 {
		t.Errorf("LoadAll() = %d goals, %d warnings; want 0, 0", len(goals), len(warnings))
	}
}

func TestSaveAllRoundTrip(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	in := []*goalmodel.Goal{
		mustGoal(t, "g1", "add docstring"),
		mustGoal(t, "g2", "refactor parser"),
	}
	if err := repo.SaveAll(ctx, in); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	out, warnings, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("LoadAll() warnings = %v, want none", warnings)
	}
	if len(out) != 2 {
		t.Fatalf("LoadAll() = %d goals, want 2", len(out))
	}
	// Insertion order is preserved
	if out[0].ID().String() != "g1" || out[1].ID().String() != "g2" {
		t.Errorf("order = [%s %s], want [g1 g2]", out[0].ID(), out[1].ID())
	}
	if out[0].Status() != model.GoalStatusPending {
		t.Errorf("Status() = %v, want PENDING", out[0].Status())
	}
}

func TestLoadAllSkipsMalformedEntries(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `goals:
  - id: g1
    description: valid goal
  - description: entry without id
  - id: g3
    description: ""
  - id: g4
    description: bad status
    status: NOT_A_STATUS
  - id: g5
    description: another valid goal
`
	if err := afero.WriteFile(fs, goalsPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	repo := NewFileGoalRepository(fs, goalsPath)

	goals, warnings, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}

	if len(goals) != 2 {
		t.Fatalf("LoadAll() = %d goals, want 2", len(goals))
	}
	if goals[0].ID().String() != "g1" || goals[1].ID().String() != "g5" {
		t.Errorf("kept goals = [%s %s], want [g1 g5]", goals[0].ID(), goals[1].ID())
	}

	if len(warnings) != 3 {
		t.Fatalf("warnings = %d, want 3", len(warnings))
	}
	wantIndexes := []int{1, 2, 3}
	for i, w := range warnings {
		if w.Index != wantIndexes[i] {
			t.Errorf("warnings[%d].Index = %d, want %d", i, w.Index, wantIndexes[i])
		}
		if w.Reason == "" {
			t.Errorf("warnings[%d].Reason is empty", i)
		}
	}
}

func TestLoadAllCorruptFileIsError(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, goalsPath, []byte("goals: [unclosed"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	repo := NewFileGoalRepository(fs, goalsPath)

	if _, _, err := repo.LoadAll(context.Background()); err == nil {
		t.Error("LoadAll() on corrupt YAML expected error")
	}
}

func TestAppend(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	if err := repo.Append(ctx, mustGoal(t, "g1", "first")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := repo.Append(ctx, mustGoal(t, "g2", "second")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	goals, _, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("LoadAll() = %d goals, want 2", len(goals))
	}
}

func TestAppendRejectsDuplicateID(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	if err := repo.Append(ctx, mustGoal(t, "g1", "first")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := repo.Append(ctx, mustGoal(t, "g1", "duplicate")); err == nil {
		t.Error("Append() with duplicate ID expected error")
	}
}

func TestSaveAllPreservesTerminalState(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	g := mustGoal(t, "g1", "finish me")
	if err := g.UpdateStatus(model.GoalStatusInProgress); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if err := g.UpdateStatus(model.GoalStatusCompleted); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	g.SetOutcome("accepted on attempt 1")

	if err := repo.SaveAll(ctx, []*goalmodel.Goal{g}); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	out, _, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if out[0].Status() != model.GoalStatusCompleted {
		t.Errorf("Status() = %v, want COMPLETED", out[0].Status())
	}
	if out[0].Outcome() != "accepted on attempt 1" {
		t.Errorf("Outcome() = %q, want recorded outcome", out[0].Outcome())
	}
}
