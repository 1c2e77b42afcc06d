package app

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// JournalEntry is one line of the run journal: a normalized trace of a
// single cycle, independent of the snapshot store
type JournalEntry struct {
	TS        string   `json:"ts"`
	GoalID    string   `json:"goal_id"`
	Attempt   int      `json:"attempt"`
	Stage     string   `json:"stage"`
	Decision  string   `json:"decision"`
	ElapsedMs int64    `json:"elapsed_ms"`
	Error     string   `json:"error"`
	Artifacts []string `json:"artifacts"`
}

// Normalize fills missing fields with defaults for a consistent schema
func (e *JournalEntry) Normalize() {
	if e.TS == "" {
		e.TS = time.Now().UTC().Format(time.RFC3339Nano)
	}
	if e.Stage == "" {
		e.Stage = "unknown"
	}
	if e.Artifacts == nil {
		e.Artifacts = []string{}
	}
}

// JournalWriter appends normalized journal entries to an NDJSON file
type JournalWriter struct {
	path string
}

// NewJournalWriter creates a new JournalWriter instance
func NewJournalWriter(path string) *JournalWriter {
	return &JournalWriter{path: path}
}

// Append writes a normalized journal entry to the journal file
func (w *JournalWriter) Append(entry *JournalEntry) error {
	entry.Normalize()

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)

	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	if _, err = bw.Write(append(b, '\n')); err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return err
	}

	// Sync for durability; a failed sync is logged, not fatal
	if err := f.Sync(); err != nil {
		GetLogger().Warn("failed to fsync journal: %v", err)
	}

	return nil
}

// Load reads all journal entries, skipping torn lines
func (w *JournalWriter) Load() ([]*JournalEntry, error) {
	f, err := os.Open(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []*JournalEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var entry JournalEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, &entry)
	}
	return entries, scanner.Err()
}
