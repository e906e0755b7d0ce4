package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/knmt/lorapick/internal/domain"
)

// renderOutput prints the step output in a friendly, ASCII-only format.
func renderOutput(w io.Writer, out domain.StepOutput) {
	if out.Failed {
		fmt.Fprintf(w, "Selection failed: %s\n", out.Message)
		return
	}

	fmt.Fprintln(w, "Selected LoRAs:")
	fmt.Fprintln(w, out.SelectedLoRAInfo)

	fmt.Fprintf(w, "\nLoader path: %s\n", out.LoRAPath)
	fmt.Fprintf(w, "Strength: %.2f\n", out.LoRAStrength)
	if out.TriggerWords != "" {
		fmt.Fprintf(w, "Trigger words: %s\n", out.TriggerWords)
	}
	fmt.Fprintf(w, "\nCombined prompt:\n  %s\n", out.CombinedPrompt)
}

type wireOutput struct {
	SelectedLoRAInfo string  `json:"selected_lora_info"`
	LoRAPath         string  `json:"lora_path"`
	LoRAStrength     float64 `json:"lora_strength"`
	TriggerWords     string  `json:"trigger_words"`
	CombinedPrompt   string  `json:"combined_prompt"`
	DebugInfo        string  `json:"debug_info"`
}

// renderJSON emits the fixed six-value surface as a single JSON object.
func renderJSON(w io.Writer, out domain.StepOutput) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(wireOutput{
		SelectedLoRAInfo: out.SelectedLoRAInfo,
		LoRAPath:         out.LoRAPath,
		LoRAStrength:     out.LoRAStrength,
		TriggerWords:     out.TriggerWords,
		CombinedPrompt:   out.CombinedPrompt,
		DebugInfo:        out.DebugInfo,
	})
}
