package model

import (
	"testing"
	"time"
)

func TestGoalIDFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "Valid ID", input: "improve_docs", wantErr: false},
		{name: "Empty ID", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewGoalIDFromString(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewGoalIDFromString() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && id.String() != tt.input {
				t.Errorf("String() = %v, want %v", id.String(), tt.input)
			}
		})
	}
}

func TestGoalIDGenerated(t *testing.T) {
	a := NewGoalID()
	b := NewGoalID()
	if a.String() == "" {
		t.Error("generated GoalID is empty")
	}
	if a.Equals(b) {
		t.Error("two generated GoalIDs should not be equal")
	}
}

func TestGoalStatusTransitions(t *testing.T) {
	tests := []struct {
		name string
		from GoalStatus
		to   GoalStatus
		want bool
	}{
		{name: "Pending to InProgress", from: GoalStatusPending, to: GoalStatusInProgress, want: true},
		{name: "Pending to Completed", from: GoalStatusPending, to: GoalStatusCompleted, want: false},
		{name: "InProgress to Completed", from: GoalStatusInProgress, to: GoalStatusCompleted, want: true},
		{name: "InProgress to Skipped", from: GoalStatusInProgress, to: GoalStatusSkipped, want: true},
		{name: "InProgress back to Pending", from: GoalStatusInProgress, to: GoalStatusPending, want: true},
		{name: "Completed is terminal", from: GoalStatusCompleted, to: GoalStatusInProgress, want: false},
		{name: "Skipped is terminal", from: GoalStatusSkipped, to: GoalStatusPending, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGoalStatusIsTerminal(t *testing.T) {
	if GoalStatusPending.IsTerminal() || GoalStatusInProgress.IsTerminal() {
		t.Error("non-terminal status reported as terminal")
	}
	if !GoalStatusCompleted.IsTerminal() || !GoalStatusSkipped.IsTerminal() {
		t.Error("terminal status not reported as terminal")
	}
}

func TestParseGoalStatus(t *testing.T) {
	if _, err := ParseGoalStatus("PENDING"); err != nil {
		t.Errorf("ParseGoalStatus(PENDING) error = %v", err)
	}
	if _, err := ParseGoalStatus("bogus"); err == nil {
		t.Error("ParseGoalStatus(bogus) expected error")
	}
}

func TestAttempt(t *testing.T) {
	a := NewAttempt()
	if a.Value() != 1 {
		t.Errorf("NewAttempt().Value() = %d, want 1", a.Value())
	}

	a = a.Increment()
	if a.Value() != 2 {
		t.Errorf("Increment().Value() = %d, want 2", a.Value())
	}

	if a.Exhausted(3) {
		t.Error("attempt 2 should not exhaust budget 3")
	}
	if !a.Increment().Exhausted(3) {
		t.Error("attempt 3 should exhaust budget 3")
	}
	if a.Exhausted(0) {
		t.Error("budget 0 means unlimited attempts")
	}

	if _, err := NewAttemptFromInt(0); err == nil {
		t.Error("NewAttemptFromInt(0) expected error")
	}
}

func TestTimestampOrdering(t *testing.T) {
	earlier := NewTimestampFromTime(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	later := NewTimestampFromTime(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if !earlier.Before(later) {
		t.Error("earlier.Before(later) = false, want true")
	}
	if later.Before(earlier) {
		t.Error("later.Before(earlier) = true, want false")
	}
}
