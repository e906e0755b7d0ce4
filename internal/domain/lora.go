package domain

// Strength bounds applied to every LoRA blend weight.
const (
	MinStrength = 0.1
	MaxStrength = 2.0
	// FallbackStrength is reported when no entry was selected.
	FallbackStrength = 0.7
)

// LoRAEntry describes one model adapter inside a category document.
type LoRAEntry struct {
	FilePath        string   `json:"file_path"`
	StrengthDefault float64  `json:"strength_default"`
	TriggerWords    []string `json:"trigger_words"`
	Tags            []string `json:"tags,omitempty"`
}

// CategoryInfo carries the display metadata of a category document.
type CategoryInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryRecord mirrors one config/lora_style/<category>.json document.
// The category name itself is derived from the file name, not the body.
type CategoryRecord struct {
	Info  CategoryInfo         `json:"category_info"`
	LoRAs map[string]LoRAEntry `json:"loras"`
}

// GlobalSettings mirrors the global_settings object of
// config/global_settings.json. RandomSeed stays nil when the document
// carries null, meaning no default seed is configured.
type GlobalSettings struct {
	MaxTriggerWords int     `json:"max_trigger_words"`
	DefaultStrength float64 `json:"default_strength"`
	RandomSeed      *int64  `json:"random_seed"`
	DebugMode       bool    `json:"debug_mode"`
	FileValidation  bool    `json:"file_validation"`
}

// SelectedLoRA pairs a LoRA name with its entry, in selection order.
type SelectedLoRA struct {
	Name  string
	Entry LoRAEntry
}

// ClampStrength forces a blend weight into [MinStrength, MaxStrength].
func ClampStrength(v float64) float64 {
	if v < MinStrength {
		return MinStrength
	}
	if v > MaxStrength {
		return MaxStrength
	}
	return v
}
