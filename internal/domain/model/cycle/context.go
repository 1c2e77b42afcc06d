package cycle

import (
	"github.com/kaizenloop/kaizen/internal/domain/model"
	"github.com/kaizenloop/kaizen/internal/domain/model/goal"
)

// ChangeType classifies what a task does to its target file
type ChangeType string

const (
	ChangeTypeAdd    ChangeType = "add"
	ChangeTypeModify ChangeType = "modify"
	ChangeTypeDelete ChangeType = "delete"
)

// IsValid validates the change type
func (c ChangeType) IsValid() bool {
	switch c {
	case ChangeTypeAdd, ChangeTypeModify, ChangeTypeDelete:
		return true
	default:
		return false
	}
}

// Task is one granular action item derived from a goal
type Task struct {
	FilePath    string     `json:"file_path"`
	ChangeType  ChangeType `json:"change_type"`
	Description string     `json:"description"`
}

// ValidationResult holds the outcome of the validation stage
type ValidationResult struct {
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// MetadataKeyError is where stage failures are recorded in the metadata map
const MetadataKeyError = "error"

// MetadataKeyAbortReason is where an aborting stage records its reason
const MetadataKeyAbortReason = "abort_reason"

// Context is the mutable state threaded through one cycle's stage sequence.
// It is exclusively owned by the engine for the duration of one cycle; a
// stage receives it, mutates it, and must not retain it across cycles.
type Context struct {
	goal    *goal.Goal
	attempt model.Attempt

	CodeView   string
	Tasks      []Task
	Patch      string
	Validation *ValidationResult
	Accepted   bool

	aborted  bool
	metadata map[string]string
}

// NewContext creates a fresh context for one cycle attempt
func NewContext(g *goal.Goal, attempt model.Attempt) *Context {
	return &Context{
		goal:     g,
		attempt:  attempt,
		metadata: make(map[string]string),
	}
}

// Goal returns the goal this cycle is processing
func (c *Context) Goal() *goal.Goal {
	return c.goal
}

// Attempt returns the attempt counter for this cycle
func (c *Context) Attempt() model.Attempt {
	return c.attempt
}

// Abort marks the cycle aborted with a reason; remaining stages are skipped
func (c *Context) Abort(reason string) {
	c.aborted = true
	if reason != "" {
		c.metadata[MetadataKeyAbortReason] = reason
	}
}

// Aborted reports whether a stage requested an abort
func (c *Context) Aborted() bool {
	return c.aborted
}

// AbortReason returns the recorded abort reason, if any
func (c *Context) AbortReason() string {
	return c.metadata[MetadataKeyAbortReason]
}

// RecordError captures an unexpected stage failure in the metadata map
func (c *Context) RecordError(stage string, err error) {
	c.metadata[MetadataKeyError] = stage + ": " + err.Error()
}

// SetMetadata stores a stage-specific annotation
func (c *Context) SetMetadata(key, value string) {
	c.metadata[key] = value
}

// Metadata returns the annotation stored under key
func (c *Context) Metadata(key string) string {
	return c.metadata[key]
}

// MetadataMap returns a copy of all annotations
func (c *Context) MetadataMap() map[string]string {
	out := make(map[string]string, len(c.metadata))
	for k, v := range c.metadata {
		out[k] = v
	}
	return out
}
