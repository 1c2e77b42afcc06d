package goal

import (
	"errors"
	"time"

	"github.com/kaizenloop/kaizen/internal/domain/model"
)

// Goal is a unit of requested improvement work with lifecycle status.
// A goal is immutable once it reaches a terminal status.
type Goal struct {
	id          model.GoalID
	description string
	status      model.GoalStatus
	outcome     string
	createdAt   model.Timestamp
	updatedAt   model.Timestamp
}

// NewGoal creates a new pending goal
func NewGoal(id model.GoalID, description string) (*Goal, error) {
	if description == "" {
		return nil, errors.New("description cannot be empty")
	}

	now := model.NewTimestamp()
	return &Goal{
		id:          id,
		description: description,
		status:      model.GoalStatusPending,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructGoal reconstructs a goal from stored data
func ReconstructGoal(
	id model.GoalID,
	description string,
	status model.GoalStatus,
	outcome string,
	createdAt time.Time,
	updatedAt time.Time,
) *Goal {
	return &Goal{
		id:          id,
		description: description,
		status:      status,
		outcome:     outcome,
		createdAt:   model.NewTimestampFromTime(createdAt),
		updatedAt:   model.NewTimestampFromTime(updatedAt),
	}
}

// ID returns the goal ID
func (g *Goal) ID() model.GoalID {
	return g.id
}

// Description returns the goal description
func (g *Goal) Description() string {
	return g.description
}

// Status returns the current status
func (g *Goal) Status() model.GoalStatus {
	return g.status
}

// Outcome returns the recorded terminal outcome or skip reason
func (g *Goal) Outcome() string {
	return g.outcome
}

// CreatedAt returns the creation timestamp
func (g *Goal) CreatedAt() model.Timestamp {
	return g.createdAt
}

// UpdatedAt returns the last update timestamp
func (g *Goal) UpdatedAt() model.Timestamp {
	return g.updatedAt
}

// UpdateStatus transitions to a new status
func (g *Goal) UpdateStatus(newStatus model.GoalStatus) error {
	if !newStatus.IsValid() {
		return errors.New("invalid status")
	}

	if !g.status.CanTransitionTo(newStatus) {
		return errors.New("invalid status transition from " + g.status.String() + " to " + newStatus.String())
	}

	g.status = newStatus
	g.updatedAt = model.NewTimestamp()
	return nil
}

// SetOutcome records the terminal outcome text
func (g *Goal) SetOutcome(outcome string) {
	g.outcome = outcome
	g.updatedAt = model.NewTimestamp()
}
