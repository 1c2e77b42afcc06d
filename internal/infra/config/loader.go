package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	appconfig "github.com/kaizenloop/kaizen/internal/app/config"
)

// settings mirrors the setting.yaml layout
type settings struct {
	Home       string `koanf:"home"`
	Workdir    string `koanf:"workdir"`
	AgentBin   string `koanf:"agent_bin"`
	TimeoutSec int    `koanf:"timeout_sec"`

	MaxAttempts int `koanf:"max_attempts"`
	MaxCycles   int `koanf:"max_cycles"`

	ValidateCommand string `koanf:"validate_command"`

	Learning struct {
		Backend string `koanf:"backend"`
		Limit   int    `koanf:"limit"`
		Ranker  string `koanf:"ranker"`
	} `koanf:"learning"`

	LogLevel string `koanf:"log_level"`
}

// LoadSettings loads configuration with priority setting.yaml < ENV.
// Defaults apply when neither source provides a value. A missing settings
// file is not an error.
func LoadSettings(settingPath string) (appconfig.Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"home":             ".kaizen",
		"workdir":          ".",
		"agent_bin":        "claude",
		"timeout_sec":      300,
		"max_attempts":     3,
		"max_cycles":       0,
		"validate_command": "go test ./...",
		"learning.backend": "sqlite",
		"learning.limit":   5,
		"learning.ranker":  "recency",
		"log_level":        "info",
	}
	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	source := "default"

	// 1. Load from setting.yaml when present
	if settingPath != "" {
		if _, err := os.Stat(settingPath); err == nil {
			if err := k.Load(file.Provider(settingPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load settings %s: %w", settingPath, err)
			}
			source = "file"
		} else {
			settingPath = ""
		}
	}

	// 2. Load from ENV (KAIZEN_MAX_ATTEMPTS -> max_attempts,
	// KAIZEN_LEARNING__LIMIT -> learning.limit)
	if err := k.Load(env.Provider("KAIZEN_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "KAIZEN_"))
		return strings.Replace(key, "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}
	if source == "default" && hasKaizenEnv() {
		source = "env"
	}

	var s settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return appconfig.NewAppConfig(
		s.Home, s.Workdir, s.AgentBin,
		s.TimeoutSec, s.MaxAttempts, s.MaxCycles,
		s.ValidateCommand, s.Learning.Backend,
		s.Learning.Limit,
		s.Learning.Ranker, s.LogLevel,
		source, settingPath,
	), nil
}

func hasKaizenEnv() bool {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "KAIZEN_") {
			return true
		}
	}
	return false
}
