package config

import "time"

// Config provides read-only access to application configuration.
// This interface abstracts the configuration source (YAML, ENV, defaults)
// and ensures the app layer doesn't depend on infrastructure details.
type Config interface {
	// Core settings
	Home() string           // Base data directory (KAIZEN_HOME)
	Workdir() string        // Working tree under improvement (KAIZEN_WORKDIR)
	AgentBin() string       // Generation backend binary (KAIZEN_AGENT_BIN)
	TimeoutSec() int        // Backend call timeout in seconds (KAIZEN_TIMEOUT_SEC)
	Timeout() time.Duration // Backend call timeout as Duration

	// Cycle budgets
	MaxAttempts() int // Attempts per goal before it is skipped
	MaxCycles() int   // Global cycle budget, 0 means unlimited

	// Collaborators
	ValidateCommand() string // Validation command run against the workdir

	// Learning feedback loop
	LearningBackend() string // "sqlite" or "file"
	LearningLimit() int      // Max prior examples folded into generation
	RankerName() string      // "recency" or "keyword"

	// Logging
	LogLevel() string // debug, info, warn, error

	// Metadata
	ConfigSource() string // Source of configuration: "file", "env", or "default"
	SettingPath() string  // Path to setting.yaml if loaded from file
}

// AppConfig is the concrete implementation of Config interface
type AppConfig struct {
	home       string
	workdir    string
	agentBin   string
	timeoutSec int

	maxAttempts int
	maxCycles   int

	validateCommand string

	learningBackend string
	learningLimit   int
	rankerName      string

	logLevel string

	configSource string
	settingPath  string
}

// NewAppConfig creates a config with explicit values
func NewAppConfig(
	home, workdir, agentBin string,
	timeoutSec, maxAttempts, maxCycles int,
	validateCommand, learningBackend string,
	learningLimit int,
	rankerName, logLevel string,
	configSource, settingPath string,
) *AppConfig {
	return &AppConfig{
		home:            home,
		workdir:         workdir,
		agentBin:        agentBin,
		timeoutSec:      timeoutSec,
		maxAttempts:     maxAttempts,
		maxCycles:       maxCycles,
		validateCommand: validateCommand,
		learningBackend: learningBackend,
		learningLimit:   learningLimit,
		rankerName:      rankerName,
		logLevel:        logLevel,
		configSource:    configSource,
		settingPath:     settingPath,
	}
}

// Home returns the base data directory
func (c *AppConfig) Home() string {
	return c.home
}

// Workdir returns the working tree under improvement
func (c *AppConfig) Workdir() string {
	return c.workdir
}

// AgentBin returns the generation backend binary
func (c *AppConfig) AgentBin() string {
	return c.agentBin
}

// TimeoutSec returns the backend timeout in seconds
func (c *AppConfig) TimeoutSec() int {
	return c.timeoutSec
}

// Timeout returns the backend timeout as a Duration
func (c *AppConfig) Timeout() time.Duration {
	return time.Duration(c.timeoutSec) * time.Second
}

// MaxAttempts returns the attempt budget per goal
func (c *AppConfig) MaxAttempts() int {
	return c.maxAttempts
}

// MaxCycles returns the global cycle budget
func (c *AppConfig) MaxCycles() int {
	return c.maxCycles
}

// ValidateCommand returns the validation command
func (c *AppConfig) ValidateCommand() string {
	return c.validateCommand
}

// LearningBackend returns the learning log backend name
func (c *AppConfig) LearningBackend() string {
	return c.learningBackend
}

// LearningLimit returns the max prior examples per generation
func (c *AppConfig) LearningLimit() int {
	return c.learningLimit
}

// RankerName returns the configured relevance ranker name
func (c *AppConfig) RankerName() string {
	return c.rankerName
}

// LogLevel returns the configured log level
func (c *AppConfig) LogLevel() string {
	return c.logLevel
}

// ConfigSource returns where the configuration was loaded from
func (c *AppConfig) ConfigSource() string {
	return c.configSource
}

// SettingPath returns the path to setting.yaml if loaded from file
func (c *AppConfig) SettingPath() string {
	return c.settingPath
}
