package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/kaizenloop/kaizen/internal/app"
	appconfig "github.com/kaizenloop/kaizen/internal/app/config"
	"github.com/kaizenloop/kaizen/internal/domain/model"
	"github.com/kaizenloop/kaizen/internal/domain/model/cycle"
	goalmodel "github.com/kaizenloop/kaizen/internal/domain/model/goal"
	"github.com/kaizenloop/kaizen/internal/domain/model/snapshot"
	"github.com/kaizenloop/kaizen/internal/domain/repository"
	goalusecase "github.com/kaizenloop/kaizen/internal/usecase/goal"
	"github.com/kaizenloop/kaizen/internal/usecase/stage"
)

// State is the engine's position in its run loop
type State string

const (
	StateIdle       State = "idle"
	StateSelectGoal State = "select_goal"
	StateRunStages  State = "run_stages"
	StatePersist    State = "persist"
	StateDecide     State = "decide"
	StateStopped    State = "stopped"
)

// Run termination reasons
const (
	ReasonQueueExhausted  = "queue_exhausted"
	ReasonBudgetExhausted = "budget_exhausted"
	ReasonCanceled        = "canceled"
	ReasonFailed          = "failed"
)

// Per-cycle decisions recorded in the journal
const (
	decisionCompleted = "completed"
	decisionRetry     = "retry"
	decisionSkipped   = "skipped"
	decisionFailed    = "failed"
)

// Journal receives one normalized entry per cycle. Journal failures are
// logged and never interrupt a run.
type Journal interface {
	Append(entry *app.JournalEntry) error
}

// RunResult summarizes one engine run
type RunResult struct {
	Reason    string
	Cycles    int
	Completed int
	Skipped   int
}

// Deps bundles the engine's collaborators
type Deps struct {
	Config    appconfig.Config
	Goals     *goalusecase.Manager
	Stages    []stage.Stage
	Snapshots repository.SnapshotStore
	Learning  repository.LearningLog
	Journal   Journal
}

// Engine drives goals through the stage pipeline until the queue or a
// budget is exhausted. One Engine value serves one run; it is not safe
// for concurrent use.
type Engine struct {
	cfg       appconfig.Config
	goals     *goalusecase.Manager
	stages    []stage.Stage
	snapshots repository.SnapshotStore
	learning  repository.LearningLog
	journal   Journal

	state    State
	failFast bool
	now      func() time.Time
}

// New creates an engine from its dependencies
func New(deps Deps) *Engine {
	return &Engine{
		cfg:       deps.Config,
		goals:     deps.Goals,
		stages:    deps.Stages,
		snapshots: deps.Snapshots,
		learning:  deps.Learning,
		journal:   deps.Journal,
		state:     StateIdle,
		now:       time.Now,
	}
}

// SetFailFast makes unexpected stage failures stop the whole run
// instead of skipping the failing goal
func (e *Engine) SetFailFast(v bool) {
	e.failFast = v
}

// SetClock overrides the time source
func (e *Engine) SetClock(now func() time.Time) {
	if now != nil {
		e.now = now
	}
}

// State returns the engine's current state
func (e *Engine) State() State {
	return e.state
}

func (e *Engine) transition(next State) {
	app.GetLogger().Debug("engine: %s -> %s", e.state, next)
	e.state = next
}

// Run processes goals until the queue is exhausted, the cycle budget
// runs out, or the context is canceled. Cancellation is honored between
// goals; a goal once selected runs its cycle to the end.
func (e *Engine) Run(ctx context.Context) (*RunResult, error) {
	res := &RunResult{}
	defer e.transition(StateStopped)

	for {
		e.transition(StateSelectGoal)

		if e.budgetExhausted(res) {
			res.Reason = ReasonBudgetExhausted
			return res, nil
		}
		if ctx.Err() != nil {
			res.Reason = ReasonCanceled
			return res, nil
		}

		g, err := e.goals.NextPending(ctx)
		if err != nil {
			res.Reason = ReasonFailed
			return res, err
		}
		if g == nil {
			res.Reason = ReasonQueueExhausted
			return res, nil
		}

		accepted, err := e.snapshots.HasAccepted(ctx, g.ID())
		if err != nil {
			res.Reason = ReasonFailed
			return res, model.ErrIntegrity.WithDetails(map[string]interface{}{"cause": err.Error()})
		}
		if accepted {
			// An accepted record already exists; completing without a
			// new cycle keeps reruns idempotent
			app.GetLogger().Info("goal %s already has an accepted change, completing", g.ID())
			if err := e.goals.MarkCompleted(ctx, g, "accepted change already recorded"); err != nil {
				res.Reason = ReasonFailed
				return res, err
			}
			res.Completed++
			continue
		}

		if err := e.processGoal(ctx, g, res); err != nil {
			res.Reason = ReasonFailed
			return res, err
		}
		if res.Reason == ReasonBudgetExhausted {
			return res, nil
		}
	}
}

func (e *Engine) budgetExhausted(res *RunResult) bool {
	return e.cfg.MaxCycles() > 0 && res.Cycles >= e.cfg.MaxCycles()
}

// processGoal runs cycles for one goal until it reaches a terminal
// status or the cycle budget runs out. On budget exhaustion the goal is
// left in progress so a later run can resume it.
func (e *Engine) processGoal(ctx context.Context, g *goalmodel.Goal, res *RunResult) error {
	attempt := model.NewAttempt()
	tasks := e.resumeTasks(ctx, g)

	for {
		c := cycle.NewContext(g, attempt)
		c.Tasks = tasks

		e.transition(StateRunStages)
		started := e.now()
		failedStage, stageErr := e.runStages(ctx, c)
		elapsed := e.now().Sub(started)

		e.transition(StatePersist)
		recordID, err := e.persist(ctx, c)
		if err != nil {
			return err
		}

		e.transition(StateDecide)
		res.Cycles++
		decision, reason := e.decide(c, stageErr, attempt)
		e.logJournal(c, failedStage, decision, stageErr, elapsed, recordID)

		switch decision {
		case decisionCompleted:
			if err := e.goals.MarkCompleted(ctx, g, "change accepted"); err != nil {
				return err
			}
			res.Completed++
			return nil

		case decisionSkipped:
			if err := e.goals.MarkSkipped(ctx, g, reason); err != nil {
				return err
			}
			res.Skipped++
			return nil

		case decisionFailed:
			return stageErr

		case decisionRetry:
			if e.budgetExhausted(res) {
				res.Reason = ReasonBudgetExhausted
				return nil
			}
			attempt = attempt.Increment()
			tasks = c.Tasks
		}
	}
}

// runStages executes the pipeline over the shared context, stopping on
// the first abort or failure. A stage panic is contained and surfaces
// as a stage failure.
func (e *Engine) runStages(ctx context.Context, c *cycle.Context) (string, error) {
	for _, s := range e.stages {
		if c.Aborted() {
			break
		}

		err := e.execute(ctx, s, c)
		if err != nil {
			c.RecordError(s.Name(), err)
			c.Abort("stage " + s.Name() + " failed")
			return s.Name(), err
		}
	}
	return "", nil
}

func (e *Engine) execute(ctx context.Context, s stage.Stage, c *cycle.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stage %s panicked: %v", s.Name(), r)
		}
	}()
	return s.Execute(ctx, c)
}

// persist records the cycle snapshot and its learning projection. The
// snapshot is the source of truth: failing to record it is an integrity
// failure that stops the run. A learning append failure only warns.
func (e *Engine) persist(ctx context.Context, c *cycle.Context) (string, error) {
	snap := snapshot.FromContext(c, e.now())
	recordID, err := e.snapshots.Record(ctx, snap)
	if err != nil {
		return "", model.ErrIntegrity.WithDetails(map[string]interface{}{
			"goal_id": snap.GoalID,
			"cause":   err.Error(),
		})
	}
	snap.RecordID = recordID

	if err := e.learning.Append(ctx, snap.ToLearningEntry()); err != nil {
		app.GetLogger().Warn("failed to append learning entry for goal %s: %v", snap.GoalID, err)
	}
	return recordID, nil
}

// decide maps a finished cycle to its outcome. Unexpected stage
// failures skip the goal (or stop the run under fail-fast); expected
// negative outcomes retry while the attempt budget allows, then skip.
func (e *Engine) decide(c *cycle.Context, stageErr error, attempt model.Attempt) (string, string) {
	if stageErr != nil {
		if e.failFast {
			return decisionFailed, stageErr.Error()
		}
		return decisionSkipped, "stage failure: " + stageErr.Error()
	}

	if c.Accepted {
		return decisionCompleted, ""
	}

	reason := c.AbortReason()
	if reason == "" {
		reason = "change not accepted"
	}
	if attempt.Exhausted(e.cfg.MaxAttempts()) {
		return decisionSkipped, fmt.Sprintf("attempt budget exhausted after %d attempts: %s", attempt.Value(), reason)
	}
	return decisionRetry, reason
}

// resumeTasks seeds a fresh attempt with the task list of the goal's
// latest snapshot, so an interrupted goal does not re-identify its
// problems. History read failures fall back to a clean start.
func (e *Engine) resumeTasks(ctx context.Context, g *goalmodel.Goal) []cycle.Task {
	history, err := e.snapshots.LoadHistory(ctx, g.ID())
	if err != nil {
		app.GetLogger().Warn("failed to load history for goal %s, starting fresh: %v", g.ID(), err)
		return nil
	}
	if len(history) == 0 {
		return nil
	}
	latest := history[len(history)-1]
	if len(latest.Tasks) == 0 {
		return nil
	}
	app.GetLogger().Info("resuming goal %s with %d tasks from record %s", g.ID(), len(latest.Tasks), latest.RecordID)
	return latest.Tasks
}

func (e *Engine) logJournal(c *cycle.Context, failedStage, decision string, stageErr error, elapsed time.Duration, recordID string) {
	if e.journal == nil {
		return
	}

	stageName := failedStage
	if stageName == "" && len(e.stages) > 0 {
		stageName = e.stages[len(e.stages)-1].Name()
	}

	errMsg := ""
	if stageErr != nil {
		errMsg = stageErr.Error()
	}

	entry := &app.JournalEntry{
		TS:        e.now().UTC().Format(time.RFC3339Nano),
		GoalID:    c.Goal().ID().String(),
		Attempt:   c.Attempt().Value(),
		Stage:     stageName,
		Decision:  decision,
		ElapsedMs: elapsed.Milliseconds(),
		Error:     errMsg,
		Artifacts: []string{recordID},
	}
	if err := e.journal.Append(entry); err != nil {
		app.GetLogger().Warn("failed to append journal entry: %v", err)
	}
}
