package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/kaizenloop/kaizen/internal/domain/model/cycle"
	"github.com/kaizenloop/kaizen/internal/domain/model/snapshot"
	"github.com/kaizenloop/kaizen/internal/domain/repository"
	"github.com/kaizenloop/kaizen/internal/domain/service"
)

// LearningLogRepositoryImpl implements LearningLog using SQLite
type LearningLogRepositoryImpl struct {
	db     *sql.DB
	ranker service.RelevanceRanker
}

// NewLearningLogRepository creates a new LearningLog implementation
func NewLearningLogRepository(db *sql.DB, ranker service.RelevanceRanker) repository.LearningLog {
	return &LearningLogRepositoryImpl{db: db, ranker: ranker}
}

// Append adds one learning entry
func (r *LearningLogRepositoryImpl) Append(ctx context.Context, entry *snapshot.LearningEntry) error {
	tasks, err := json.Marshal(entry.Tasks)
	if err != nil {
		return fmt.Errorf("marshal learning tasks: %w", err)
	}

	query := `
		INSERT INTO learning_entries (goal_description, tasks, patch, test_passed, accepted, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		entry.GoalDesc,
		string(tasks),
		entry.Patch,
		entry.TestPassed,
		entry.Accepted,
		entry.RecordedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to append learning entry: %w", err)
	}

	return nil
}

// Query returns up to limit entries ranked by the configured relevance
// ranker. Entries are loaded in append order so the ranking is
// deterministic for the same log state.
func (r *LearningLogRepositoryImpl) Query(ctx context.Context, goalDescription string, limit int) ([]*snapshot.LearningEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := `
		SELECT goal_description, tasks, patch, test_passed, accepted, recorded_at
		FROM learning_entries
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query learning entries: %w", err)
	}
	defer rows.Close()

	var entries []*snapshot.LearningEntry
	for rows.Next() {
		entry := &snapshot.LearningEntry{}
		var tasks string

		err := rows.Scan(
			&entry.GoalDesc,
			&tasks,
			&entry.Patch,
			&entry.TestPassed,
			&entry.Accepted,
			&entry.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan learning entry: %w", err)
		}

		if err := json.Unmarshal([]byte(tasks), &entry.Tasks); err != nil {
			entry.Tasks = []cycle.Task{}
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating learning entries: %w", err)
	}

	ranked := r.ranker.Rank(entries, goalDescription)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
