package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GoalID represents a unique identifier for a goal
type GoalID struct {
	value string
}

// NewGoalID creates a new generated GoalID
func NewGoalID() GoalID {
	return GoalID{value: uuid.New().String()}
}

// NewGoalIDFromString creates a GoalID from an existing string
func NewGoalIDFromString(id string) (GoalID, error) {
	if id == "" {
		return GoalID{}, errors.New("goal ID cannot be empty")
	}
	return GoalID{value: id}, nil
}

// String returns the string representation
func (g GoalID) String() string {
	return g.value
}

// Equals checks if two GoalIDs are equal
func (g GoalID) Equals(other GoalID) bool {
	return g.value == other.value
}

// GoalStatus represents the lifecycle status of a goal
type GoalStatus string

const (
	GoalStatusPending    GoalStatus = "PENDING"
	GoalStatusInProgress GoalStatus = "IN_PROGRESS"
	GoalStatusCompleted  GoalStatus = "COMPLETED"
	GoalStatusSkipped    GoalStatus = "SKIPPED"
)

// String returns the string representation
func (s GoalStatus) String() string {
	return string(s)
}

// IsValid validates the status
func (s GoalStatus) IsValid() bool {
	switch s {
	case GoalStatusPending, GoalStatusInProgress, GoalStatusCompleted, GoalStatusSkipped:
		return true
	default:
		return false
	}
}

// IsTerminal returns true when the status allows no further transitions
func (s GoalStatus) IsTerminal() bool {
	return s == GoalStatusCompleted || s == GoalStatusSkipped
}

// CanTransitionTo checks if a status transition is valid
func (s GoalStatus) CanTransitionTo(next GoalStatus) bool {
	validTransitions := map[GoalStatus][]GoalStatus{
		GoalStatusPending:    {GoalStatusInProgress},
		GoalStatusInProgress: {GoalStatusCompleted, GoalStatusSkipped, GoalStatusPending},
		GoalStatusCompleted:  {},
		GoalStatusSkipped:    {},
	}

	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}

	for _, allowedStatus := range allowed {
		if allowedStatus == next {
			return true
		}
	}
	return false
}

// ParseGoalStatus parses a stored status string into a GoalStatus
func ParseGoalStatus(s string) (GoalStatus, error) {
	status := GoalStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown goal status %q", s)
	}
	return status, nil
}

// Attempt represents a cycle attempt counter for a goal
type Attempt struct {
	value int
}

// NewAttempt creates a new Attempt starting from 1
func NewAttempt() Attempt {
	return Attempt{value: 1}
}

// NewAttemptFromInt creates an Attempt from an integer value
func NewAttemptFromInt(value int) (Attempt, error) {
	if value < 1 {
		return Attempt{}, errors.New("attempt value must be at least 1")
	}
	return Attempt{value: value}, nil
}

// Value returns the integer value
func (a Attempt) Value() int {
	return a.value
}

// Increment returns a new Attempt with incremented value
func (a Attempt) Increment() Attempt {
	return Attempt{value: a.value + 1}
}

// Exhausted reports whether the counter has reached the given budget
func (a Attempt) Exhausted(budget int) bool {
	return budget > 0 && a.value >= budget
}

// String returns the string representation
func (a Attempt) String() string {
	return fmt.Sprintf("Attempt %d", a.value)
}

// Timestamp represents a point in time
type Timestamp struct {
	value time.Time
}

// NewTimestamp creates a new Timestamp with current time
func NewTimestamp() Timestamp {
	return Timestamp{value: time.Now()}
}

// NewTimestampFromTime creates a Timestamp from a time.Time value
func NewTimestampFromTime(t time.Time) Timestamp {
	return Timestamp{value: t}
}

// Value returns the time.Time value
func (t Timestamp) Value() time.Time {
	return t.value
}

// Before checks if this timestamp is before another
func (t Timestamp) Before(other Timestamp) bool {
	return t.value.Before(other.value)
}

// String returns the string representation
func (t Timestamp) String() string {
	return t.value.Format(time.RFC3339)
}
