package goal

import (
	"context"
	"fmt"

	"github.com/kaizenloop/kaizen/internal/app"
	"github.com/kaizenloop/kaizen/internal/domain/model"
	goalmodel "github.com/kaizenloop/kaizen/internal/domain/model/goal"
	"github.com/kaizenloop/kaizen/internal/domain/repository"
)

// OrderPolicy orders the pending goals for selection. The default keeps
// insertion order; a priority or dependency policy can be injected.
type OrderPolicy func(goals []*goalmodel.Goal) []*goalmodel.Goal

// InsertionOrder is the default policy: goals are served in source order
func InsertionOrder(goals []*goalmodel.Goal) []*goalmodel.Goal {
	return goals
}

// Manager owns the ordered goal queue and its lifecycle transitions.
// Every transition is persisted back to the repository before returning.
type Manager struct {
	repo   repository.GoalRepository
	policy OrderPolicy
	goals  []*goalmodel.Goal
	loaded bool
}

// NewManager creates a goal manager with the given ordering policy.
// A nil policy means insertion order.
func NewManager(repo repository.GoalRepository, policy OrderPolicy) *Manager {
	if policy == nil {
		policy = InsertionOrder
	}
	return &Manager{repo: repo, policy: policy}
}

// Load reads the backing source. Malformed entries are logged and
// skipped; only a read failure of the source itself is an error.
func (m *Manager) Load(ctx context.Context) error {
	goals, warnings, err := m.repo.LoadAll(ctx)
	if err != nil {
		return model.ErrIntegrity.WithDetails(map[string]interface{}{"cause": err.Error()})
	}
	for _, w := range warnings {
		app.GetLogger().Warn("skipping malformed goal entry %d: %s", w.Index, w.Reason)
	}
	m.goals = goals
	m.loaded = true
	return nil
}

// Goals returns all loaded goals in source order
func (m *Manager) Goals() []*goalmodel.Goal {
	return m.goals
}

// NextPending returns the next selectable goal in policy order, marking
// it in progress. Goals left IN_PROGRESS by an interrupted run are
// served once the pending queue is drained, so no goal is stranded in a
// non-terminal status. It returns nil when nothing is selectable; that
// is the engine's normal termination signal, not an error.
func (m *Manager) NextPending(ctx context.Context) (*goalmodel.Goal, error) {
	if err := m.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	ordered := m.policy(m.goals)
	for _, g := range ordered {
		if g.Status() != model.GoalStatusPending {
			continue
		}
		if err := g.UpdateStatus(model.GoalStatusInProgress); err != nil {
			return nil, fmt.Errorf("select goal %s: %w", g.ID(), err)
		}
		if err := m.save(ctx); err != nil {
			return nil, err
		}
		return g, nil
	}

	// Anything still IN_PROGRESS here was interrupted before reaching a
	// terminal status; it is already marked, so serve it as is.
	for _, g := range ordered {
		if g.Status() == model.GoalStatusInProgress {
			app.GetLogger().Info("resuming goal %s left in progress by an earlier run", g.ID())
			return g, nil
		}
	}
	return nil, nil
}

// MarkCompleted transitions a goal to COMPLETED. It is an idempotent
// no-op when the goal is already terminal and an InvalidTransition error
// when the goal is not in progress.
func (m *Manager) MarkCompleted(ctx context.Context, g *goalmodel.Goal, outcome string) error {
	return m.finish(ctx, g, model.GoalStatusCompleted, outcome)
}

// MarkSkipped transitions a goal to SKIPPED with a reason. Same
// idempotency and transition rules as MarkCompleted.
func (m *Manager) MarkSkipped(ctx context.Context, g *goalmodel.Goal, reason string) error {
	return m.finish(ctx, g, model.GoalStatusSkipped, reason)
}

func (m *Manager) finish(ctx context.Context, g *goalmodel.Goal, status model.GoalStatus, outcome string) error {
	if g.Status().IsTerminal() {
		return nil
	}
	if g.Status() != model.GoalStatusInProgress {
		return model.ErrInvalidTransition.WithDetails(map[string]interface{}{
			"goal_id": g.ID().String(),
			"from":    g.Status().String(),
			"to":      status.String(),
		})
	}
	if err := g.UpdateStatus(status); err != nil {
		return fmt.Errorf("finish goal %s: %w", g.ID(), err)
	}
	g.SetOutcome(outcome)
	return m.save(ctx)
}

func (m *Manager) ensureLoaded(ctx context.Context) error {
	if m.loaded {
		return nil
	}
	return m.Load(ctx)
}

func (m *Manager) save(ctx context.Context) error {
	if err := m.repo.SaveAll(ctx, m.goals); err != nil {
		return model.ErrIntegrity.WithDetails(map[string]interface{}{"cause": err.Error()})
	}
	return nil
}
