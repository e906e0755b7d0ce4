// Package config implements the on-disk LoRA catalog: one JSON document
// per category under <config_dir>/lora_style plus a global settings
// document, with automatic migration from the legacy single-file format.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knmt/lorapick/internal/domain"
	"github.com/knmt/lorapick/internal/ports"
)

// Store implements ports.ConfigStore over a config directory.
type Store struct {
	configDir string
	lorasDir  string
	log       ports.Logger

	global     domain.GlobalSettings
	categories []string
	cache      map[string]domain.CategoryRecord
	lastMod    time.Time
}

// NewStore builds a store rooted at configDir. Relative LoRA file paths
// are resolved against lorasDir.
func NewStore(configDir, lorasDir string, log ports.Logger) *Store {
	return &Store{
		configDir: configDir,
		lorasDir:  lorasDir,
		log:       log,
		global:    defaultGlobal(),
		cache:     make(map[string]domain.CategoryRecord),
	}
}

func (s *Store) styleDir() string {
	return filepath.Join(s.configDir, "lora_style")
}

func (s *Store) globalPath() string {
	return filepath.Join(s.configDir, "global_settings.json")
}

// LegacyPath is the location of the old consolidated config document.
func (s *Store) LegacyPath() string {
	return filepath.Join(s.configDir, "lora_config.json")
}

// BackupPath is where the legacy document is parked after migration.
func (s *Store) BackupPath() string {
	return filepath.Join(s.configDir, "lora_config_backup.json")
}

// ConfigDir returns the root of the catalog on disk.
func (s *Store) ConfigDir() string {
	return s.configDir
}

// Reload rebuilds the catalog from disk, replacing all cached state.
// It migrates the legacy format first when detected, synthesizes default
// documents for missing pieces, and warn-skips category documents that
// fail validation. It returns false when the global settings document
// cannot be loaded or when no category survives validation.
func (s *Store) Reload(_ context.Context) bool {
	if fileExists(s.LegacyPath()) && !fileExists(s.styleDir()) {
		if err := s.migrateLegacy(); err != nil {
			// Best effort: a failed migration leaves the legacy file in
			// place and the reload proceeds without the new-format tree.
			s.log.Error("legacy config migration failed", err, nil)
		}
	}

	if !s.loadGlobal() {
		return false
	}
	if !s.loadCategories() {
		return false
	}

	s.log.Info("config reloaded", map[string]interface{}{
		"categories": len(s.categories),
	})
	return true
}

// Categories lists category names in discovery order from the latest
// reload.
func (s *Store) Categories() []string {
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

// CategoryLoRAs returns the LoRA entries of a category. Unknown categories
// yield an empty map with a warning, never a failure.
func (s *Store) CategoryLoRAs(category string) map[string]domain.LoRAEntry {
	record, ok := s.cache[category]
	if !ok {
		s.log.Warn("unknown category requested", map[string]interface{}{
			"category": category,
		})
		return map[string]domain.LoRAEntry{}
	}

	out := make(map[string]domain.LoRAEntry, len(record.LoRAs))
	for name, entry := range record.LoRAs {
		out[name] = entry
	}
	return out
}

// LoRAInfo looks up a single entry.
func (s *Store) LoRAInfo(category, name string) (domain.LoRAEntry, bool) {
	record, ok := s.cache[category]
	if !ok {
		return domain.LoRAEntry{}, false
	}
	entry, ok := record.LoRAs[name]
	return entry, ok
}

// Global returns the settings from the latest reload.
func (s *Store) Global() domain.GlobalSettings {
	return s.global
}

// FileExists reports whether a LoRA file is present on disk. Relative
// paths are resolved against the loras directory first.
func (s *Store) FileExists(path string) bool {
	if path == "" {
		return false
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.lorasDir, path)
	}
	return fileExists(path)
}

// LastModified is the newest category document mtime from the latest
// reload.
func (s *Store) LastModified() time.Time {
	return s.lastMod
}

func (s *Store) loadGlobal() bool {
	data, err := os.ReadFile(s.globalPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("global settings missing, writing defaults", map[string]interface{}{
				"path": s.globalPath(),
			})
			s.global = defaultGlobal()
			if werr := s.writeDefaultGlobal(); werr != nil {
				s.log.Error("default global settings write failed", werr, nil)
			}
			return true
		}
		s.log.Error("global settings read failed", err, nil)
		return false
	}

	settings := defaultGlobal()
	doc := globalDoc{Global: &settings}
	if err := json.Unmarshal(data, &doc); err != nil {
		s.log.Error("global settings parse failed", err, nil)
		return false
	}
	s.global = settings
	return true
}

func (s *Store) loadCategories() bool {
	dir := s.styleDir()
	if !fileExists(dir) {
		s.log.Warn("category directory missing, writing default category", map[string]interface{}{
			"dir": dir,
		})
		if err := s.writeDefaultCategory(); err != nil {
			s.log.Error("default category write failed", err, nil)
		}
		if !fileExists(dir) {
			// Defaults could not be created; an empty catalog is still a
			// successful reload on this path.
			s.categories = nil
			s.cache = make(map[string]domain.CategoryRecord)
			s.lastMod = time.Time{}
			return true
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		s.log.Error("category directory read failed", err, nil)
		return false
	}

	categories := make([]string, 0, len(entries))
	cache := make(map[string]domain.CategoryRecord, len(entries))
	var lastMod time.Time

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")

		record, err := loadCategoryFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			s.log.Warn("skipping invalid category document", map[string]interface{}{
				"category": name,
				"reason":   err.Error(),
			})
			continue
		}

		if info, err := entry.Info(); err == nil && info.ModTime().After(lastMod) {
			lastMod = info.ModTime()
		}

		categories = append(categories, name)
		cache[name] = record
		s.log.Debug("category loaded", map[string]interface{}{
			"category": name,
			"loras":    len(record.LoRAs),
		})
	}

	s.categories = categories
	s.cache = cache
	s.lastMod = lastMod

	if len(categories) == 0 {
		s.log.Error("no valid category documents found", domain.ErrNoCategories, map[string]interface{}{
			"dir": dir,
		})
		return false
	}
	return true
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var _ ports.ConfigStore = (*Store)(nil)
