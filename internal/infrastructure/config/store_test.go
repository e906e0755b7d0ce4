package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/knmt/lorapick/internal/domain"
	"github.com/knmt/lorapick/internal/pkg/logger"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

const validCategory = `{
  "category_info": {"name": "char", "description": "characters"},
  "loras": {
    "alpha": {
      "file_path": "alpha.safetensors",
      "strength_default": 0.8,
      "trigger_words": ["a1", "a2"],
      "tags": ["anime"]
    }
  }
}`

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "config"), filepath.Join(dir, "loras"), logger.NewNop())
	return store, dir
}

func TestReloadLoadsValidCategoriesAndSkipsInvalid(t *testing.T) {
	store, dir := newTestStore(t)
	styleDir := filepath.Join(dir, "config", "lora_style")

	writeFile(t, filepath.Join(dir, "config", "global_settings.json"),
		`{"global_settings": {"max_trigger_words": 5, "default_strength": 0.9, "random_seed": null, "debug_mode": false, "file_validation": true}}`)
	writeFile(t, filepath.Join(styleDir, "char.json"), validCategory)
	writeFile(t, filepath.Join(styleDir, "style.json"), validCategory)
	// Missing strength_default invalidates the whole document.
	writeFile(t, filepath.Join(styleDir, "broken.json"),
		`{"loras": {"x": {"file_path": "x.safetensors", "trigger_words": []}}}`)
	writeFile(t, filepath.Join(styleDir, "notjson.txt"), "ignored")

	if !store.Reload(context.Background()) {
		t.Fatal("Reload() = false, want true")
	}

	want := []string{"char", "style"}
	if diff := cmp.Diff(want, store.Categories()); diff != "" {
		t.Fatalf("Categories mismatch (-want +got):\n%s", diff)
	}

	entries := store.CategoryLoRAs("char")
	if len(entries) != 1 {
		t.Fatalf("char has %d loras, want 1", len(entries))
	}
	entry, ok := store.LoRAInfo("char", "alpha")
	if !ok {
		t.Fatal("LoRAInfo(char, alpha) not found")
	}
	if entry.StrengthDefault != 0.8 || entry.FilePath != "alpha.safetensors" {
		t.Fatalf("unexpected entry %+v", entry)
	}

	global := store.Global()
	if global.MaxTriggerWords != 5 || global.DefaultStrength != 0.9 {
		t.Fatalf("unexpected global settings %+v", global)
	}

	if store.LastModified().IsZero() {
		t.Fatal("LastModified should reflect the category documents")
	}
}

func TestReloadFailsWhenNoCategoryIsValid(t *testing.T) {
	store, dir := newTestStore(t)

	writeFile(t, filepath.Join(dir, "config", "global_settings.json"),
		`{"global_settings": {}}`)
	writeFile(t, filepath.Join(dir, "config", "lora_style", "bad.json"), `{"no_loras": true}`)

	if store.Reload(context.Background()) {
		t.Fatal("Reload() = true with zero valid categories, want false")
	}
}

func TestReloadFailsOnMalformedGlobalSettings(t *testing.T) {
	store, dir := newTestStore(t)

	writeFile(t, filepath.Join(dir, "config", "global_settings.json"), `{not json`)
	writeFile(t, filepath.Join(dir, "config", "lora_style", "char.json"), validCategory)

	if store.Reload(context.Background()) {
		t.Fatal("Reload() = true with malformed global settings, want false")
	}
}

func TestReloadCreatesDefaultDocuments(t *testing.T) {
	store, dir := newTestStore(t)

	if !store.Reload(context.Background()) {
		t.Fatal("Reload() = false on a fresh directory, want true")
	}

	if _, err := os.Stat(filepath.Join(dir, "config", "global_settings.json")); err != nil {
		t.Fatalf("default global settings not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config", "lora_style", "character.json")); err != nil {
		t.Fatalf("default category not written: %v", err)
	}

	want := []string{"character"}
	if diff := cmp.Diff(want, store.Categories()); diff != "" {
		t.Fatalf("Categories mismatch (-want +got):\n%s", diff)
	}

	global := store.Global()
	if !global.FileValidation || global.MaxTriggerWords != 3 {
		t.Fatalf("unexpected default global settings %+v", global)
	}
}

func TestReloadHydratesMissingGlobalKeys(t *testing.T) {
	store, dir := newTestStore(t)

	writeFile(t, filepath.Join(dir, "config", "global_settings.json"),
		`{"global_settings": {"max_trigger_words": 7}}`)
	writeFile(t, filepath.Join(dir, "config", "lora_style", "char.json"), validCategory)

	if !store.Reload(context.Background()) {
		t.Fatal("Reload() = false, want true")
	}

	global := store.Global()
	if global.MaxTriggerWords != 7 {
		t.Fatalf("MaxTriggerWords = %d, want 7", global.MaxTriggerWords)
	}
	if global.DefaultStrength != domain.FallbackStrength || !global.FileValidation {
		t.Fatalf("missing keys not hydrated with defaults: %+v", global)
	}
}

func TestMigrateLegacyConfig(t *testing.T) {
	store, dir := newTestStore(t)

	legacy := map[string]interface{}{
		"categories": map[string]interface{}{
			"char": map[string]interface{}{
				"description": "characters",
				"loras": map[string]interface{}{
					"alpha": map[string]interface{}{
						"file_path":        "alpha.safetensors",
						"strength_default": 0.8,
						"trigger_words":    []string{"a1"},
					},
				},
			},
			"style": map[string]interface{}{
				"loras": map[string]interface{}{
					"painterly": map[string]interface{}{
						"file_path":        "painterly.safetensors",
						"strength_default": 0.6,
						"trigger_words":    []string{"oil painting"},
					},
				},
			},
		},
		"global_settings": map[string]interface{}{
			"max_trigger_words": 2,
			"default_strength":  0.5,
		},
	}
	raw, err := json.Marshal(legacy)
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "config", "lora_config.json"), string(raw))

	if !store.Reload(context.Background()) {
		t.Fatal("Reload() = false after migration, want true")
	}

	for _, name := range []string{"char.json", "style.json"} {
		if _, err := os.Stat(filepath.Join(dir, "config", "lora_style", name)); err != nil {
			t.Fatalf("migrated category %s missing: %v", name, err)
		}
	}
	if _, err := os.Stat(store.LegacyPath()); !os.IsNotExist(err) {
		t.Fatal("legacy config still present at its original name")
	}
	if _, err := os.Stat(store.BackupPath()); err != nil {
		t.Fatalf("legacy backup missing: %v", err)
	}

	want := []string{"char", "style"}
	if diff := cmp.Diff(want, store.Categories()); diff != "" {
		t.Fatalf("Categories mismatch (-want +got):\n%s", diff)
	}
	if got := store.Global().MaxTriggerWords; got != 2 {
		t.Fatalf("migrated MaxTriggerWords = %d, want 2", got)
	}

	// A second reload finds the new layout and changes nothing.
	if !store.Reload(context.Background()) {
		t.Fatal("second Reload() = false, want true")
	}
	if _, err := os.Stat(store.BackupPath()); err != nil {
		t.Fatalf("backup disappeared on second reload: %v", err)
	}
}

func TestMigrationSkippedWhenNewFormatExists(t *testing.T) {
	store, dir := newTestStore(t)

	writeFile(t, filepath.Join(dir, "config", "lora_config.json"), `{"categories": {}}`)
	writeFile(t, filepath.Join(dir, "config", "global_settings.json"), `{"global_settings": {}}`)
	writeFile(t, filepath.Join(dir, "config", "lora_style", "char.json"), validCategory)

	if !store.Reload(context.Background()) {
		t.Fatal("Reload() = false, want true")
	}
	if _, err := os.Stat(store.LegacyPath()); err != nil {
		t.Fatal("legacy file should stay put when the new format already exists")
	}
}

func TestFileExistsResolvesRelativePaths(t *testing.T) {
	store, dir := newTestStore(t)
	lorasDir := filepath.Join(dir, "loras")

	writeFile(t, filepath.Join(lorasDir, "alpha.safetensors"), "weights")

	if !store.FileExists("alpha.safetensors") {
		t.Fatal("relative path should resolve against the loras directory")
	}
	if store.FileExists("missing.safetensors") {
		t.Fatal("missing file reported as present")
	}
	if store.FileExists("") {
		t.Fatal("empty path reported as present")
	}

	abs := filepath.Join(lorasDir, "alpha.safetensors")
	if !store.FileExists(abs) {
		t.Fatal("absolute path should be checked as given")
	}
}

func TestCategoryLoRAsUnknownCategory(t *testing.T) {
	store, _ := newTestStore(t)

	got := store.CategoryLoRAs("ghost")
	if got == nil {
		t.Fatal("unknown category should yield an empty map, not nil")
	}
	if len(got) != 0 {
		t.Fatalf("unknown category yielded %d entries", len(got))
	}
}
