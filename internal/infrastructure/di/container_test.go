package di

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/kaizenloop/kaizen/internal/app/config"
)

func testConfig(t *testing.T, backend, ranker string) appconfig.Config {
	t.Helper()
	return appconfig.NewAppConfig(
		filepath.Join(t.TempDir(), ".kaizen"), ".", "agent",
		30, 3, 0,
		"go test ./...", backend,
		5,
		ranker, "error",
		"default", "",
	)
}

func TestNewContainerWithConfig_SqliteBackend(t *testing.T) {
	c, err := NewContainerWithConfig(testConfig(t, "sqlite", "recency"))
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.GoalRepository())
	assert.NotNil(t, c.GoalManager())
	assert.NotNil(t, c.SnapshotStore())
	assert.NotNil(t, c.LearningLog())
	assert.NotNil(t, c.Journal())

	deps := c.StageDeps()
	assert.NotNil(t, deps.Generator)
	assert.NotNil(t, deps.Code)
	assert.NotNil(t, deps.Applier)
	assert.NotNil(t, deps.Validator)
	assert.NotNil(t, deps.Reviewer)
	assert.NotNil(t, deps.Learning)
}

func TestNewContainerWithConfig_FileBackend(t *testing.T) {
	c, err := NewContainerWithConfig(testConfig(t, "file", "keyword"))
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.LearningLog())
	assert.Nil(t, c.db)
}

func TestContainer_PathsRootedAtHome(t *testing.T) {
	cfg := testConfig(t, "file", "recency")
	c, err := NewContainerWithConfig(cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, cfg.Home(), c.Paths().Home)
	assert.Equal(t, filepath.Join(cfg.Home(), "etc", "goals.yaml"), c.Paths().Goals)
}
