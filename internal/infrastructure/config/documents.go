package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knmt/lorapick/assets"
	"github.com/knmt/lorapick/internal/domain"
)

type globalDoc struct {
	Global *domain.GlobalSettings `json:"global_settings"`
}

// rawCategoryDoc mirrors a category document before validation. Pointer
// fields distinguish missing keys from zero values.
type rawCategoryDoc struct {
	Info  *domain.CategoryInfo    `json:"category_info"`
	LoRAs map[string]rawLoRAEntry `json:"loras"`
}

type rawLoRAEntry struct {
	FilePath        *string   `json:"file_path"`
	StrengthDefault *float64  `json:"strength_default"`
	TriggerWords    *[]string `json:"trigger_words"`
	Tags            []string  `json:"tags"`
}

func defaultGlobal() domain.GlobalSettings {
	return domain.GlobalSettings{
		MaxTriggerWords: 3,
		DefaultStrength: domain.FallbackStrength,
		FileValidation:  true,
	}
}

func loadCategoryFile(path string) (domain.CategoryRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.CategoryRecord{}, err
	}
	return parseCategoryDoc(data)
}

// parseCategoryDoc validates a category document and produces the typed,
// immutable record served from the cache. One invalid entry invalidates
// the whole document.
func parseCategoryDoc(data []byte) (domain.CategoryRecord, error) {
	var raw rawCategoryDoc
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.CategoryRecord{}, fmt.Errorf("parse: %w", err)
	}
	if raw.LoRAs == nil {
		return domain.CategoryRecord{}, errors.New(`missing required "loras" object`)
	}

	record := domain.CategoryRecord{
		LoRAs: make(map[string]domain.LoRAEntry, len(raw.LoRAs)),
	}
	if raw.Info != nil {
		record.Info = *raw.Info
	}

	for name, entry := range raw.LoRAs {
		if entry.FilePath == nil {
			return domain.CategoryRecord{}, fmt.Errorf("lora %q: missing file_path", name)
		}
		if entry.StrengthDefault == nil {
			return domain.CategoryRecord{}, fmt.Errorf("lora %q: missing numeric strength_default", name)
		}
		if entry.TriggerWords == nil {
			return domain.CategoryRecord{}, fmt.Errorf("lora %q: missing trigger_words list", name)
		}
		record.LoRAs[name] = domain.LoRAEntry{
			FilePath:        *entry.FilePath,
			StrengthDefault: *entry.StrengthDefault,
			TriggerWords:    *entry.TriggerWords,
			Tags:            entry.Tags,
		}
	}
	return record, nil
}

func (s *Store) writeDefaultGlobal() error {
	if err := os.MkdirAll(s.configDir, 0o755); err != nil {
		return err
	}
	if fileExists(s.globalPath()) {
		return nil
	}
	return os.WriteFile(s.globalPath(), assets.DefaultGlobalSettingsJSON, 0o644)
}

func (s *Store) writeDefaultCategory() error {
	if err := os.MkdirAll(s.styleDir(), 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.styleDir(), "character.json")
	if fileExists(path) {
		return nil
	}
	return os.WriteFile(path, assets.DefaultCategoryJSON, 0o644)
}
