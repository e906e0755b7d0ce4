package assets

import (
	_ "embed"
)

// DefaultSettingsYAML contains the embedded default tool settings.
//
//go:embed defaults/config.yaml
var DefaultSettingsYAML []byte

// DefaultGlobalSettingsJSON contains the embedded default global settings
// document written when config/global_settings.json is missing.
//
//go:embed defaults/global_settings.json
var DefaultGlobalSettingsJSON []byte

// DefaultCategoryJSON contains the embedded sample category document
// written when the category directory is missing.
//
//go:embed defaults/character.json
var DefaultCategoryJSON []byte
