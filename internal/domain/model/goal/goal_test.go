package goal

import (
	"testing"
	"time"

	"github.com/kaizenloop/kaizen/internal/domain/model"
)

func TestNewGoal(t *testing.T) {
	tests := []struct {
		name        string
		description string
		wantErr     bool
	}{
		{name: "Valid goal", description: "Add docstrings to utils", wantErr: false},
		{name: "Empty description", description: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGoal(model.NewGoalID(), tt.description)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewGoal() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			if g.Status() != model.GoalStatusPending {
				t.Errorf("Status() = %v, want %v", g.Status(), model.GoalStatusPending)
			}
			if g.Description() != tt.description {
				t.Errorf("Description() = %v, want %v", g.Description(), tt.description)
			}
		})
	}
}

func TestGoalUpdateStatus(t *testing.T) {
	g, err := NewGoal(model.NewGoalID(), "Refactor parser")
	if err != nil {
		t.Fatalf("NewGoal() error = %v", err)
	}

	if err := g.UpdateStatus(model.GoalStatusCompleted); err == nil {
		t.Error("UpdateStatus(Completed) from Pending should fail")
	}

	if err := g.UpdateStatus(model.GoalStatusInProgress); err != nil {
		t.Fatalf("UpdateStatus(InProgress) error = %v", err)
	}
	if err := g.UpdateStatus(model.GoalStatusCompleted); err != nil {
		t.Fatalf("UpdateStatus(Completed) error = %v", err)
	}

	// Terminal goals are immutable
	if err := g.UpdateStatus(model.GoalStatusPending); err == nil {
		t.Error("UpdateStatus from Completed should fail")
	}
}

func TestReconstructGoal(t *testing.T) {
	id, _ := model.NewGoalIDFromString("improve_error_handling")
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	g := ReconstructGoal(id, "Improve error handling", model.GoalStatusSkipped, "validation failed", created, updated)

	if !g.ID().Equals(id) {
		t.Errorf("ID() = %v, want %v", g.ID(), id)
	}
	if g.Status() != model.GoalStatusSkipped {
		t.Errorf("Status() = %v, want %v", g.Status(), model.GoalStatusSkipped)
	}
	if g.Outcome() != "validation failed" {
		t.Errorf("Outcome() = %v, want %v", g.Outcome(), "validation failed")
	}
	if !g.CreatedAt().Value().Equal(created) {
		t.Errorf("CreatedAt() = %v, want %v", g.CreatedAt().Value(), created)
	}
}
