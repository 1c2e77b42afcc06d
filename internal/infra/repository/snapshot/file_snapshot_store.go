package snapshot

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/afero"

	"github.com/kaizenloop/kaizen/internal/domain/model"
	snapmodel "github.com/kaizenloop/kaizen/internal/domain/model/snapshot"
	"github.com/kaizenloop/kaizen/internal/infra/persistence/file"
)

// FileSnapshotStore persists one JSON record per cycle under
// <root>/<goal-id>/<ULID>.json. ULIDs sort lexically in time order, so
// directory order is chronological order. Records are published with an
// atomic rename; a crashed write leaves only an invisible temp file.
type FileSnapshotStore struct {
	FS   afero.Fs
	Root string

	// entropy is shared across Record calls; ULID monotonicity within
	// a millisecond only holds for a single entropy source
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewFileSnapshotStore creates a new file-backed snapshot store
func NewFileSnapshotStore(fs afero.Fs, root string) *FileSnapshotStore {
	return &FileSnapshotStore{
		FS:      fs,
		Root:    root,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Record durably persists a snapshot and returns its record ID
func (s *FileSnapshotStore) Record(ctx context.Context, snap *snapmodel.Snapshot) (string, error) {
	if snap.GoalID == "" {
		return "", fmt.Errorf("cannot record snapshot without a goal ID")
	}

	id, err := s.newRecordID(snap.RecordedAt)
	if err != nil {
		return "", err
	}
	snap.RecordID = id

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot for goal %s: %w", snap.GoalID, err)
	}

	path := filepath.Join(s.Root, snap.GoalID, id+".json")
	if err := file.WriteFileAtomic(s.FS, path, data); err != nil {
		return "", fmt.Errorf("record snapshot for goal %s: %w", snap.GoalID, err)
	}

	return id, nil
}

// LoadHistory returns all records for a goal, oldest first
func (s *FileSnapshotStore) LoadHistory(ctx context.Context, goalID model.GoalID) ([]*snapmodel.Snapshot, error) {
	dir := filepath.Join(s.Root, goalID.String())
	entries, err := afero.ReadDir(s.FS, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	snapshots := make([]*snapmodel.Snapshot, 0, len(names))
	for _, name := range names {
		data, err := afero.ReadFile(s.FS, filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read snapshot %s: %w", name, err)
		}
		var snap snapmodel.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("parse snapshot %s: %w", name, err)
		}
		snapshots = append(snapshots, &snap)
	}

	return snapshots, nil
}

// HasAccepted reports whether the goal already has an accepted record
func (s *FileSnapshotStore) HasAccepted(ctx context.Context, goalID model.GoalID) (bool, error) {
	history, err := s.LoadHistory(ctx, goalID)
	if err != nil {
		return false, err
	}
	for _, snap := range history {
		if snap.Accepted {
			return true, nil
		}
	}
	return false, nil
}

// newRecordID generates a monotonic ULID anchored at the record time
func (s *FileSnapshotStore) newRecordID(at time.Time) (string, error) {
	if at.IsZero() {
		at = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entropy == nil {
		s.entropy = ulid.Monotonic(rand.Reader, 0)
	}
	id, err := ulid.New(ulid.Timestamp(at.UTC()), s.entropy)
	if err != nil {
		return "", fmt.Errorf("generate record ID: %w", err)
	}
	return id.String(), nil
}
