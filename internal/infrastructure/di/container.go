package di

import (
	"database/sql"
	"fmt"

	"github.com/spf13/afero"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kaizenloop/kaizen/internal/app"
	appconfig "github.com/kaizenloop/kaizen/internal/app/config"
	"github.com/kaizenloop/kaizen/internal/application/port/output"
	"github.com/kaizenloop/kaizen/internal/domain/repository"
	"github.com/kaizenloop/kaizen/internal/domain/service"
	infraconfig "github.com/kaizenloop/kaizen/internal/infra/config"
	"github.com/kaizenloop/kaizen/internal/infra/persistence/sqlite"
	goalrepo "github.com/kaizenloop/kaizen/internal/infra/repository/goal"
	learningrepo "github.com/kaizenloop/kaizen/internal/infra/repository/learning"
	snapshotrepo "github.com/kaizenloop/kaizen/internal/infra/repository/snapshot"
	"github.com/kaizenloop/kaizen/internal/interface/external/agentcli"
	"github.com/kaizenloop/kaizen/internal/interface/external/gitcli"
	"github.com/kaizenloop/kaizen/internal/interface/external/reviewer"
	"github.com/kaizenloop/kaizen/internal/interface/external/runcli"
	goalusecase "github.com/kaizenloop/kaizen/internal/usecase/goal"
	"github.com/kaizenloop/kaizen/internal/usecase/stage"
)

// Container wires configuration, repositories, external adapters, and
// use cases by hand in dependency order
type Container struct {
	config appconfig.Config
	paths  app.Paths
	fs     afero.Fs

	db *sql.DB

	goalRepo  repository.GoalRepository
	snapshots repository.SnapshotStore
	learning  repository.LearningLog
	ranker    service.RelevanceRanker

	generator output.Generator
	workspace *gitcli.Workspace
	validator output.ValidationRunner
	reviewer  output.ReviewPolicy

	goalManager *goalusecase.Manager
	journal     *app.JournalWriter
}

// NewContainer loads configuration and builds the full dependency graph
func NewContainer(settingPath string) (*Container, error) {
	cfg, err := infraconfig.LoadSettings(settingPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return NewContainerWithConfig(cfg)
}

// NewContainerWithConfig builds the dependency graph from an explicit
// configuration, bypassing the file and env loaders
func NewContainerWithConfig(cfg appconfig.Config) (*Container, error) {
	c := &Container{
		config: cfg,
		paths:  app.PathsIn(cfg.Home()),
		fs:     afero.NewOsFs(),
	}

	app.SetLogger(app.NewLogger(cfg.LogLevel()))

	if err := c.initializeRepositories(); err != nil {
		return nil, fmt.Errorf("initialize repositories: %w", err)
	}
	c.initializeAdapters()
	c.initializeUseCases()
	return c, nil
}

func (c *Container) initializeRepositories() error {
	for _, dir := range []string{c.paths.Etc, c.paths.Var, c.paths.Snapshots} {
		if err := c.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	c.goalRepo = goalrepo.NewFileGoalRepository(c.fs, c.paths.Goals)
	c.snapshots = snapshotrepo.NewFileSnapshotStore(c.fs, c.paths.Snapshots)

	switch c.config.RankerName() {
	case "keyword":
		c.ranker = service.NewKeywordRanker()
	default:
		c.ranker = service.NewRecencyRanker()
	}

	switch c.config.LearningBackend() {
	case "file":
		c.learning = learningrepo.NewFileLearningLog(c.fs, c.paths.Learning, c.ranker)
	default:
		db, err := sql.Open("sqlite3", c.paths.LearningDB)
		if err != nil {
			return fmt.Errorf("open learning database: %w", err)
		}
		if err := sqlite.NewMigrator(db).Migrate(); err != nil {
			db.Close()
			return fmt.Errorf("migrate learning database: %w", err)
		}
		c.db = db
		c.learning = sqlite.NewLearningLogRepository(db, c.ranker)
	}
	return nil
}

func (c *Container) initializeAdapters() {
	c.generator = agentcli.Runner{Bin: c.config.AgentBin(), Timeout: c.config.Timeout()}
	c.workspace = gitcli.New()
	c.validator = runcli.Runner{Command: c.config.ValidateCommand(), Timeout: c.config.Timeout()}
	c.reviewer = reviewer.New(c.generator)
}

func (c *Container) initializeUseCases() {
	c.goalManager = goalusecase.NewManager(c.goalRepo, nil)
	c.journal = app.NewJournalWriter(c.paths.Journal)
}

// Config returns the loaded configuration
func (c *Container) Config() appconfig.Config {
	return c.config
}

// Paths returns the resolved data directory layout
func (c *Container) Paths() app.Paths {
	return c.paths
}

// GoalRepository returns the goal repository
func (c *Container) GoalRepository() repository.GoalRepository {
	return c.goalRepo
}

// GoalManager returns the goal queue manager
func (c *Container) GoalManager() *goalusecase.Manager {
	return c.goalManager
}

// SnapshotStore returns the snapshot store
func (c *Container) SnapshotStore() repository.SnapshotStore {
	return c.snapshots
}

// LearningLog returns the learning log
func (c *Container) LearningLog() repository.LearningLog {
	return c.learning
}

// Journal returns the run journal writer
func (c *Container) Journal() *app.JournalWriter {
	return c.journal
}

// StageDeps returns the dependency bundle for stage construction
func (c *Container) StageDeps() stage.Deps {
	return stage.Deps{
		Config:    c.config,
		Generator: c.generator,
		Code:      c.workspace,
		Applier:   c.workspace,
		Validator: c.validator,
		Reviewer:  c.reviewer,
		Learning:  c.learning,
	}
}

// Close releases held resources
func (c *Container) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
