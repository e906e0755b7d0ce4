package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knmt/lorapick/internal/domain"
)

type legacyDoc struct {
	Categories     map[string]legacyCategory `json:"categories"`
	GlobalSettings json.RawMessage           `json:"global_settings"`
}

type legacyCategory struct {
	Description string          `json:"description"`
	LoRAs       json.RawMessage `json:"loras"`
}

type migratedCategoryDoc struct {
	Info  domain.CategoryInfo `json:"category_info"`
	LoRAs json.RawMessage     `json:"loras"`
}

// migrateLegacy splits the consolidated lora_config.json into the
// per-category layout and renames the original to the backup name. The
// LoRA objects are carried over verbatim; validation happens at load
// time, not here.
func (s *Store) migrateLegacy() error {
	data, err := os.ReadFile(s.LegacyPath())
	if err != nil {
		return fmt.Errorf("read legacy config: %w", err)
	}

	var legacy legacyDoc
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("parse legacy config: %w", err)
	}

	if err := os.MkdirAll(s.styleDir(), 0o755); err != nil {
		return fmt.Errorf("create category directory: %w", err)
	}

	globals := legacy.GlobalSettings
	if len(globals) == 0 {
		globals = json.RawMessage("{}")
	}
	globalOut, err := json.MarshalIndent(map[string]json.RawMessage{
		"global_settings": globals,
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.globalPath(), globalOut, 0o644); err != nil {
		return fmt.Errorf("write global settings: %w", err)
	}

	for name, category := range legacy.Categories {
		loras := category.LoRAs
		if len(loras) == 0 {
			loras = json.RawMessage("{}")
		}
		description := category.Description
		if description == "" {
			description = name + " LoRAs"
		}

		doc := migratedCategoryDoc{
			Info:  domain.CategoryInfo{Name: name, Description: description},
			LoRAs: loras,
		}
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		path := filepath.Join(s.styleDir(), name+".json")
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return fmt.Errorf("write category %s: %w", name, err)
		}
	}

	if err := os.Rename(s.LegacyPath(), s.BackupPath()); err != nil {
		return fmt.Errorf("rename legacy config: %w", err)
	}

	s.log.Info("legacy config migrated", map[string]interface{}{
		"categories": len(legacy.Categories),
		"backup":     s.BackupPath(),
	})
	return nil
}
