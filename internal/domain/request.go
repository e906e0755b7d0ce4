package domain

import "context"

// SelectRequest carries a single invocation of the selection step.
type SelectRequest struct {
	Context context.Context

	// Category names one of the discovered category documents.
	Category string
	// NumLoRAs is the requested selection size (host range 1-5).
	NumLoRAs int
	// TriggerWordCount is the per-entry trigger word sample size.
	TriggerWordCount int
	// Seed below zero means unseeded (non-deterministic) sampling.
	Seed int64
	// EnableTriggerWords toggles trigger word sampling entirely.
	EnableTriggerWords bool
	// StrengthOverride replaces per-entry defaults when > 0.
	StrengthOverride float64
	// BasePrompt is the caller-supplied prompt to merge into.
	BasePrompt string
	// Position overrides the configured trigger word position when set.
	Position string
}

// StepOutput is the fixed six-value surface the host pipeline consumes.
// Failed and Message are not part of the wire shape; they let callers
// branch without parsing the embedded JSON.
type StepOutput struct {
	SelectedLoRAInfo string
	LoRAPath         string
	LoRAStrength     float64
	TriggerWords     string
	CombinedPrompt   string
	DebugInfo        string

	Failed  bool
	Message string
}

// LoRADetail is the per-entry block of the selected_lora_info payload.
type LoRADetail struct {
	Name         string   `json:"name"`
	FilePath     string   `json:"file_path"`
	Strength     float64  `json:"strength"`
	TriggerWords []string `json:"trigger_words"`
	Tags         []string `json:"tags"`
}

// SelectionInfo is the structured record serialized into the
// selected_lora_info output.
type SelectionInfo struct {
	SelectedCount    int          `json:"selected_count"`
	LoRAs            []LoRADetail `json:"loras"`
	CombinedStrength float64      `json:"combined_strength"`
	AllTriggerWords  string       `json:"all_trigger_words"`
}
