package snapshot

import (
	"time"

	"github.com/kaizenloop/kaizen/internal/domain/model/cycle"
)

// Snapshot is an immutable, timestamped serialization of a finished or
// aborted cycle context. Once recorded it is never mutated; the snapshots
// of a goal form its full audit trail.
type Snapshot struct {
	RecordID   string                  `json:"record_id"`
	GoalID     string                  `json:"goal_id"`
	GoalDesc   string                  `json:"goal_description"`
	Attempt    int                     `json:"attempt"`
	CodeView   string                  `json:"code_view,omitempty"`
	Tasks      []cycle.Task            `json:"tasks"`
	Patch      string                  `json:"patch,omitempty"`
	Validation *cycle.ValidationResult `json:"validation,omitempty"`
	Accepted   bool                    `json:"accepted"`
	Aborted    bool                    `json:"aborted"`
	Metadata   map[string]string       `json:"metadata,omitempty"`
	RecordedAt time.Time               `json:"recorded_at"`
}

// FromContext projects a cycle context into a snapshot record.
// The record ID is assigned by the store on write.
func FromContext(c *cycle.Context, recordedAt time.Time) *Snapshot {
	return &Snapshot{
		GoalID:     c.Goal().ID().String(),
		GoalDesc:   c.Goal().Description(),
		Attempt:    c.Attempt().Value(),
		CodeView:   c.CodeView,
		Tasks:      c.Tasks,
		Patch:      c.Patch,
		Validation: c.Validation,
		Accepted:   c.Accepted,
		Aborted:    c.Aborted(),
		Metadata:   c.MetadataMap(),
		RecordedAt: recordedAt,
	}
}

// LearningEntry is the projection of a snapshot restricted to the fields
// useful for example-based guidance of future change generation.
type LearningEntry struct {
	GoalDesc   string       `json:"goal_description"`
	Tasks      []cycle.Task `json:"tasks"`
	Patch      string       `json:"patch,omitempty"`
	TestPassed bool         `json:"test_passed"`
	Accepted   bool         `json:"accepted"`
	RecordedAt time.Time    `json:"recorded_at"`
}

// ToLearningEntry derives the learning projection of this snapshot
func (s *Snapshot) ToLearningEntry() *LearningEntry {
	passed := false
	if s.Validation != nil {
		passed = s.Validation.Passed
	}
	return &LearningEntry{
		GoalDesc:   s.GoalDesc,
		Tasks:      s.Tasks,
		Patch:      s.Patch,
		TestPassed: passed,
		Accepted:   s.Accepted,
		RecordedAt: s.RecordedAt,
	}
}
