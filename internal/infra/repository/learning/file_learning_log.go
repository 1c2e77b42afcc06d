package learning

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/kaizenloop/kaizen/internal/domain/model/snapshot"
	"github.com/kaizenloop/kaizen/internal/domain/repository"
	"github.com/kaizenloop/kaizen/internal/domain/service"
	"github.com/kaizenloop/kaizen/internal/infra/persistence/file"
)

// FileLearningLog is an NDJSON-backed LearningLog: one JSON entry per
// line, append-only. A torn trailing line from an interrupted append is
// skipped on read so the log stays usable.
type FileLearningLog struct {
	FS     afero.Fs
	Path   string
	Ranker service.RelevanceRanker
}

// NewFileLearningLog creates a new NDJSON-backed learning log
func NewFileLearningLog(fs afero.Fs, path string, ranker service.RelevanceRanker) repository.LearningLog {
	return &FileLearningLog{FS: fs, Path: path, Ranker: ranker}
}

// Append adds one entry to the log file
func (l *FileLearningLog) Append(ctx context.Context, entry *snapshot.LearningEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal learning entry: %w", err)
	}
	if err := file.AppendLine(l.FS, l.Path, data); err != nil {
		return fmt.Errorf("append learning entry: %w", err)
	}
	return nil
}

// Query returns up to limit entries ranked by the configured relevance
// ranker
func (l *FileLearningLog) Query(ctx context.Context, goalDescription string, limit int) ([]*snapshot.LearningEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	f, err := l.FS.Open(l.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open learning log %s: %w", l.Path, err)
	}
	defer f.Close()

	var entries []*snapshot.LearningEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry snapshot.LearningEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			// Torn line from an interrupted append
			continue
		}
		entries = append(entries, &entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read learning log %s: %w", l.Path, err)
	}

	ranked := l.Ranker.Rank(entries, goalDescription)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
