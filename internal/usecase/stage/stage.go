package stage

import (
	"context"
	"fmt"
	"sort"

	appconfig "github.com/kaizenloop/kaizen/internal/app/config"
	"github.com/kaizenloop/kaizen/internal/application/port/output"
	"github.com/kaizenloop/kaizen/internal/domain/model/cycle"
	"github.com/kaizenloop/kaizen/internal/domain/repository"
)

// Stage is one pipeline step over a shared cycle context. A stage mutates
// the context and returns it via side effect; expected negative outcomes
// (rejected change, failed validation) are expressed through context
// fields, never as errors. A returned error signals an unexpected
// failure that the engine contains.
type Stage interface {
	// Name identifies the stage in snapshots and the journal
	Name() string

	// Execute runs the stage against the cycle context
	Execute(ctx context.Context, c *cycle.Context) error
}

// Deps bundles the collaborators available to stage constructors
type Deps struct {
	Config    appconfig.Config
	Generator output.Generator
	Code      output.CodeSource
	Applier   output.ChangeApplier
	Validator output.ValidationRunner
	Reviewer  output.ReviewPolicy
	Learning  repository.LearningLog
}

// Factory constructs a stage from its dependencies
type Factory func(deps Deps) Stage

// Stage names of the built-in pipeline
const (
	NameProblemIdentification = "problem_identification"
	NameChangeGeneration      = "change_generation"
	NameChangeValidation      = "change_validation"
	NameReview                = "review"
)

var registry = map[string]Factory{}

// Register adds a stage factory under a name. Additional stage variants
// plug in through this registry.
func Register(name string, factory Factory) {
	registry[name] = factory
}

// New constructs the named stage or fails for an unregistered name
func New(name string, deps Deps) (Stage, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown stage %q (registered: %v)", name, registeredNames())
	}
	return factory(deps), nil
}

// DefaultSequence is the built-in pipeline order
func DefaultSequence() []string {
	return []string{
		NameProblemIdentification,
		NameChangeGeneration,
		NameChangeValidation,
		NameReview,
	}
}

// BuildSequence constructs stages for the given names in declared order
func BuildSequence(names []string, deps Deps) ([]Stage, error) {
	stages := make([]Stage, 0, len(names))
	for _, name := range names {
		s, err := New(name, deps)
		if err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, nil
}

func registeredNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(NameProblemIdentification, func(deps Deps) Stage {
		return NewProblemIdentification(deps.Config, deps.Generator, deps.Code)
	})
	Register(NameChangeGeneration, func(deps Deps) Stage {
		return NewChangeGeneration(deps.Config, deps.Generator, deps.Applier, deps.Learning)
	})
	Register(NameChangeValidation, func(deps Deps) Stage {
		return NewChangeValidation(deps.Config, deps.Validator)
	})
	Register(NameReview, func(deps Deps) Stage {
		return NewReview(deps.Config, deps.Reviewer, deps.Applier)
	})
}
