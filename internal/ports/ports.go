// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The application core depends on these contracts only; concrete adapters
// live in the infrastructure layer (JSON config store on disk, YAML
// settings loader, zap logger).
package ports

import (
	"context"
	"time"

	"github.com/knmt/lorapick/internal/domain"
)

// SettingsProvider loads the tool-level settings from persistent storage.
// Implementations typically read from ~/.lorapick/config.yaml.
type SettingsProvider interface {
	Load(context.Context) (domain.Settings, error)
}

// ConfigStore serves the LoRA catalog: one JSON document per category plus
// one global settings document. Reload rebuilds the in-memory state in
// full and reports whether at least one category is usable.
type ConfigStore interface {
	Reload(context.Context) bool
	Categories() []string
	CategoryLoRAs(category string) map[string]domain.LoRAEntry
	LoRAInfo(category, name string) (domain.LoRAEntry, bool)
	Global() domain.GlobalSettings
	// FileExists resolves relative paths against the configured loras
	// directory before checking existence. Absence is a false, never an
	// error.
	FileExists(path string) bool
	// LastModified is the newest modification time across category
	// documents, so hosts can tell when to refresh a cached category list.
	LastModified() time.Time
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external
// services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
