package domain

// Settings mirrors ~/.lorapick/config.yaml. These are tool-level runtime
// options; the LoRA catalog itself lives in the JSON documents under
// ConfigDir.
type Settings struct {
	SettingsFormatVersion string          `yaml:"settings_format_version"`
	ConfigDir             string          `yaml:"config_dir"`
	LorasDir              string          `yaml:"loras_dir"`
	Prompt                PromptSettings  `yaml:"prompt"`
	Logging               LoggingSettings `yaml:"logging"`
}

// PromptSettings controls how trigger words are merged into prompts.
type PromptSettings struct {
	// TriggerPosition is beginning, end or both.
	TriggerPosition string `yaml:"trigger_position"`
}

// LoggingSettings captures log verbosity toggles.
type LoggingSettings struct {
	Verbose bool `yaml:"verbose"`
}
