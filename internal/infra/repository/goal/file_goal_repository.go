package goal

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/kaizenloop/kaizen/internal/domain/model"
	goalmodel "github.com/kaizenloop/kaizen/internal/domain/model/goal"
	"github.com/kaizenloop/kaizen/internal/domain/repository"
	"github.com/kaizenloop/kaizen/internal/infra/persistence/file"
)

// goalRecord is the YAML shape of one goal entry
type goalRecord struct {
	ID          string    `yaml:"id"`
	Description string    `yaml:"description"`
	Status      string    `yaml:"status"`
	Outcome     string    `yaml:"outcome,omitempty"`
	CreatedAt   time.Time `yaml:"created_at,omitempty"`
	UpdatedAt   time.Time `yaml:"updated_at,omitempty"`
}

// goalsFile is the YAML shape of the whole goals file
type goalsFile struct {
	Goals []goalRecord `yaml:"goals"`
}

// FileGoalRepository is a file-based implementation of GoalRepository
// backed by a single YAML goals file
type FileGoalRepository struct {
	FS   afero.Fs
	Path string
}

// NewFileGoalRepository creates a new file-based goal repository
func NewFileGoalRepository(fs afero.Fs, path string) *FileGoalRepository {
	return &FileGoalRepository{FS: fs, Path: path}
}

// LoadAll reads all goals in source order. A missing file is an empty
// queue. Malformed entries are reported as warnings and skipped; they
// never abort the load.
func (r *FileGoalRepository) LoadAll(ctx context.Context) ([]*goalmodel.Goal, []repository.ParseWarning, error) {
	data, err := afero.ReadFile(r.FS, r.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read goals file %s: %w", r.Path, err)
	}

	var f goalsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parse goals file %s: %w", r.Path, err)
	}

	var goals []*goalmodel.Goal
	var warnings []repository.ParseWarning
	for i, rec := range f.Goals {
		g, err := reconstruct(rec)
		if err != nil {
			warnings = append(warnings, repository.ParseWarning{Index: i, Reason: err.Error()})
			continue
		}
		goals = append(goals, g)
	}

	return goals, warnings, nil
}

// SaveAll persists the full goal list atomically, replacing previous state
func (r *FileGoalRepository) SaveAll(ctx context.Context, goals []*goalmodel.Goal) error {
	f := goalsFile{Goals: make([]goalRecord, 0, len(goals))}
	for _, g := range goals {
		f.Goals = append(f.Goals, toRecord(g))
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshal goals: %w", err)
	}

	if err := file.WriteFileAtomic(r.FS, r.Path, data); err != nil {
		return fmt.Errorf("save goals file %s: %w", r.Path, err)
	}
	return nil
}

// Append adds one goal to the backing file, rejecting duplicate IDs
func (r *FileGoalRepository) Append(ctx context.Context, g *goalmodel.Goal) error {
	goals, _, err := r.LoadAll(ctx)
	if err != nil {
		return err
	}
	for _, existing := range goals {
		if existing.ID().Equals(g.ID()) {
			return model.NewDomainError("GOAL_DUPLICATE_ID", "A goal with this ID already exists",
				map[string]interface{}{"goal_id": g.ID().String()})
		}
	}
	return r.SaveAll(ctx, append(goals, g))
}

func reconstruct(rec goalRecord) (*goalmodel.Goal, error) {
	id, err := model.NewGoalIDFromString(rec.ID)
	if err != nil {
		return nil, fmt.Errorf("missing id: %w", err)
	}
	if rec.Description == "" {
		return nil, fmt.Errorf("goal %q: missing description", rec.ID)
	}

	status := model.GoalStatusPending
	if rec.Status != "" {
		status, err = model.ParseGoalStatus(rec.Status)
		if err != nil {
			return nil, fmt.Errorf("goal %q: %w", rec.ID, err)
		}
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	return goalmodel.ReconstructGoal(id, rec.Description, status, rec.Outcome, createdAt, updatedAt), nil
}

func toRecord(g *goalmodel.Goal) goalRecord {
	return goalRecord{
		ID:          g.ID().String(),
		Description: g.Description(),
		Status:      g.Status().String(),
		Outcome:     g.Outcome(),
		CreatedAt:   g.CreatedAt().Value(),
		UpdatedAt:   g.UpdatedAt().Value(),
	}
}
