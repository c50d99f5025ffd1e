package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/skchalotra/skgpt/internal/domain/entities"
)

// Settings are optional overrides read from skgpt.toml.
//
//	model = "llama-3.3-70b-versatile"
//	max_tool_rounds = 5
//
//	[server]
//	temperature = 0.5
//
//	[console]
//	temperature = 0.25
type Settings struct {
	Model         string        `toml:"model"`
	MaxToolRounds int           `toml:"max_tool_rounds"`
	Server        AgentSettings `toml:"server"`
	Console       AgentSettings `toml:"console"`
}

type AgentSettings struct {
	Temperature  *float64 `toml:"temperature"`
	SystemPrompt string   `toml:"system_prompt"`
}

// DefaultSettingsPath returns ~/.config/skgpt/skgpt.toml
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, ".config", "skgpt", "skgpt.toml")
}

// LoadSettings reads the settings file. A missing file yields empty settings.
func LoadSettings(path string, logger *zap.Logger) (*Settings, error) {
	settings := &Settings{}
	if path == "" {
		return settings, nil
	}

	if _, err := toml.DecodeFile(path, settings); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Settings file does not exist, using defaults", zap.String("path", path))
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	if settings.MaxToolRounds < 0 {
		return nil, fmt.Errorf("max_tool_rounds must not be negative, got %d", settings.MaxToolRounds)
	}

	logger.Debug("Loaded settings", zap.String("path", path))
	return settings, nil
}

// Apply overlays the settings onto an agent. The server and console sections
// are selected by the caller.
func (s *Settings) Apply(agent *entities.Agent, section AgentSettings) {
	if s.Model != "" {
		agent.Model = s.Model
	}
	if s.MaxToolRounds > 0 {
		agent.MaxToolRounds = s.MaxToolRounds
	}
	if section.Temperature != nil {
		agent.Temperature = *section.Temperature
	}
	if section.SystemPrompt != "" {
		agent.SystemPrompt = section.SystemPrompt
	}
}
