package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved paths for the kaizen data directory
type Paths struct {
	Home      string // .kaizen directory
	Etc       string // .kaizen/etc
	Var       string // .kaizen/var
	Snapshots string // .kaizen/var/snapshots

	// Key files
	Setting    string // .kaizen/etc/setting.yaml
	Goals      string // .kaizen/etc/goals.yaml
	Journal    string // .kaizen/var/journal.ndjson
	LearningDB string // .kaizen/var/learning.db
	Learning   string // .kaizen/var/learning.ndjson
}

// ResolvePaths returns all paths based on the KAIZEN_HOME environment variable
func ResolvePaths() Paths {
	home := os.Getenv("KAIZEN_HOME")
	if home == "" {
		home = ".kaizen"
	}
	return PathsIn(home)
}

// PathsIn returns all paths rooted at an explicit home directory
func PathsIn(home string) Paths {
	p := Paths{
		Home: home,
		Etc:  filepath.Join(home, "etc"),
		Var:  filepath.Join(home, "var"),
	}

	p.Snapshots = filepath.Join(p.Var, "snapshots")
	p.Setting = filepath.Join(p.Etc, "setting.yaml")
	p.Goals = filepath.Join(p.Etc, "goals.yaml")
	p.Journal = filepath.Join(p.Var, "journal.ndjson")
	p.LearningDB = filepath.Join(p.Var, "learning.db")
	p.Learning = filepath.Join(p.Var, "learning.ndjson")

	return p
}
