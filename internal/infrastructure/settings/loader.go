// Package settings loads the tool-level YAML configuration.
package settings

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/knmt/lorapick/assets"
	"github.com/knmt/lorapick/internal/domain"
	"github.com/knmt/lorapick/internal/ports"
	"github.com/knmt/lorapick/internal/prompt"
)

// FileLoader loads YAML settings from ~/.lorapick/config.yaml (overridable
// via LORAPICK_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.SettingsProvider.
func (l *FileLoader) Load(context.Context) (domain.Settings, error) {
	path := l.Path()
	if err := ensureSettingsDir(path); err != nil {
		return domain.Settings{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, assets.DefaultSettingsYAML, 0o600); err != nil {
				return domain.Settings{}, err
			}
			data = assets.DefaultSettingsYAML
		} else {
			return domain.Settings{}, err
		}
	}

	var cfg domain.Settings
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Settings{}, err
	}

	return hydrateDefaults(cfg), nil
}

// Path resolves the settings file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("LORAPICK_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(userHomeDir(), ".lorapick", "config.yaml")
}

func ensureSettingsDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func hydrateDefaults(cfg domain.Settings) domain.Settings {
	if cfg.SettingsFormatVersion == "" {
		cfg.SettingsFormatVersion = "1"
	}
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = "config"
	}
	if cfg.LorasDir == "" {
		cfg.LorasDir = filepath.Join("models", "loras")
	}
	if cfg.Prompt.TriggerPosition == "" {
		cfg.Prompt.TriggerPosition = prompt.PositionBeginning
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.SettingsProvider = (*FileLoader)(nil)
