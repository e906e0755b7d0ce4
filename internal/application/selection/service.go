package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/knmt/lorapick/internal/domain"
	"github.com/knmt/lorapick/internal/ports"
	"github.com/knmt/lorapick/internal/prompt"
)

// Service orchestrates one selection step invocation end to end: reload,
// lookup, sampling, weighting, prompt assembly and output formatting.
type Service struct {
	Store    ports.ConfigStore
	Selector *Selector
	Prompts  *prompt.Builder
	Logger   ports.Logger

	// Position is the configured trigger word position; a request may
	// override it.
	Position string
}

// Run processes a request and always returns the full six-field output
// shape. Failures of any kind are folded into the error-shaped output;
// Run never panics past its boundary.
func (s *Service) Run(req domain.SelectRequest) (out domain.StepOutput) {
	defer func() {
		if r := recover(); r != nil {
			out = errorOutput(fmt.Sprintf("internal error: %v", r))
		}
	}()

	out, err := s.run(req)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Error("selection step failed", err, map[string]interface{}{
				"category": req.Category,
			})
		}
		return errorOutput(err.Error())
	}
	return out
}

func (s *Service) run(req domain.SelectRequest) (domain.StepOutput, error) {
	if s.Store == nil || s.Selector == nil || s.Prompts == nil || s.Logger == nil {
		return domain.StepOutput{}, errors.New("selection.Service dependencies not satisfied")
	}

	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	if !s.Store.Reload(ctx) {
		s.Logger.Warn("config reload reported failure", nil)
	}
	global := s.Store.Global()

	loras := s.Store.CategoryLoRAs(req.Category)
	if len(loras) == 0 {
		return domain.StepOutput{}, fmt.Errorf("no loras found in category %q: %w", req.Category, domain.ErrUnknownCategory)
	}

	seed := req.Seed
	if seed < 0 && global.RandomSeed != nil && *global.RandomSeed >= 0 {
		seed = *global.RandomSeed
	}

	selected := s.Selector.SelectRandom(loras, req.NumLoRAs, seed)
	if len(selected) == 0 {
		return domain.StepOutput{}, domain.ErrEmptySelection
	}

	strengths := s.Selector.WeightedStrengths(selected, req.StrengthOverride)

	wordCount := req.TriggerWordCount
	if global.MaxTriggerWords > 0 && wordCount > global.MaxTriggerWords {
		wordCount = global.MaxTriggerWords
	}
	words := make([][]string, len(selected))
	for i := range words {
		words[i] = []string{}
	}
	if req.EnableTriggerWords && wordCount > 0 {
		for i, sel := range selected {
			words[i] = s.Selector.SelectTriggerWords(sel.Entry, wordCount, seed)
		}
	}

	info := s.Selector.FormatInfo(selected, strengths, words)

	validations := make([]bool, len(selected))
	if global.FileValidation {
		validations = s.Selector.ValidatePaths(selected, s.Store.FileExists)
	}

	position := s.Position
	if req.Position != "" {
		position = req.Position
	}
	if position == "" {
		position = prompt.PositionBeginning
	}

	combined := s.Prompts.BuildCombined(req.BasePrompt, info.AllTriggerWords, position)
	combined = s.Prompts.Clean(combined)

	infoJSON, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return domain.StepOutput{}, fmt.Errorf("encode selection info: %w", err)
	}

	debugJSON, err := buildDebugInfo(selected, strengths, words, validations, seed, global.FileValidation)
	if err != nil {
		return domain.StepOutput{}, fmt.Errorf("encode debug info: %w", err)
	}

	first := selected[0]
	loaderPath := first.Entry.FilePath
	if loaderPath == "" {
		loaderPath = first.Name
	}

	s.Logger.Info("selection complete", map[string]interface{}{
		"category": req.Category,
		"selected": len(selected),
		"seed":     seed,
	})
	if global.DebugMode {
		// debug_mode in the global settings document forces the detail out
		// even when the logger itself is not verbose.
		s.Logger.Info("selection detail", map[string]interface{}{
			"loras":           info.LoRAs,
			"combined_prompt": combined,
			"validated":       global.FileValidation,
		})
	}

	return domain.StepOutput{
		SelectedLoRAInfo: string(infoJSON),
		LoRAPath:         loaderPath,
		LoRAStrength:     strengths[0],
		TriggerWords:     info.AllTriggerWords,
		CombinedPrompt:   combined,
		DebugInfo:        debugJSON,
	}, nil
}

type debugPayload struct {
	ExecutionInfo  executionInfo         `json:"execution_info"`
	FileValidation map[string]fileStatus `json:"file_validation"`
	Details        []debugDetail         `json:"details"`
}

type executionInfo struct {
	ExecutionID    string `json:"execution_id"`
	SeedUsed       int64  `json:"seed_used"`
	LoRAsSelected  int    `json:"loras_selected"`
	FilesValidated bool   `json:"files_validated"`
	Timestamp      string `json:"timestamp"`
}

type fileStatus struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

type debugDetail struct {
	Index        int      `json:"index"`
	Name         string   `json:"name"`
	Strength     float64  `json:"strength"`
	TriggerWords []string `json:"trigger_words"`
	FileExists   bool     `json:"file_exists"`
}

func buildDebugInfo(selected []domain.SelectedLoRA, strengths []float64, words [][]string, validations []bool, seed int64, validated bool) (string, error) {
	payload := debugPayload{
		ExecutionInfo: executionInfo{
			ExecutionID:    uuid.NewString(),
			SeedUsed:       seed,
			LoRAsSelected:  len(selected),
			FilesValidated: validated,
			Timestamp:      time.Now().UTC().Format(time.RFC3339),
		},
		FileValidation: make(map[string]fileStatus, len(selected)),
		Details:        make([]debugDetail, 0, len(selected)),
	}

	for i, sel := range selected {
		exists := false
		if i < len(validations) {
			exists = validations[i]
		}
		if validated {
			payload.FileValidation[sel.Name] = fileStatus{
				Path:   sel.Entry.FilePath,
				Exists: exists,
			}
		}

		strength := domain.FallbackStrength
		if i < len(strengths) {
			strength = strengths[i]
		}
		entryWords := []string{}
		if i < len(words) && words[i] != nil {
			entryWords = words[i]
		}

		payload.Details = append(payload.Details, debugDetail{
			Index:        i,
			Name:         sel.Name,
			Strength:     strength,
			TriggerWords: entryWords,
			FileExists:   exists,
		})
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

type errorInfo struct {
	Error         bool                `json:"error"`
	Message       string              `json:"message"`
	SelectedCount int                 `json:"selected_count"`
	LoRAs         []domain.LoRADetail `json:"loras"`
}

// errorOutput produces the full six-field shape with the failure embedded,
// so callers can always destructure the same outputs.
func errorOutput(msg string) domain.StepOutput {
	payload, err := json.MarshalIndent(errorInfo{
		Error:   true,
		Message: msg,
		LoRAs:   []domain.LoRADetail{},
	}, "", "  ")
	if err != nil {
		payload = []byte(`{"error": true}`)
	}

	return domain.StepOutput{
		SelectedLoRAInfo: string(payload),
		LoRAPath:         "",
		LoRAStrength:     domain.FallbackStrength,
		TriggerWords:     "",
		CombinedPrompt:   msg,
		DebugInfo:        msg,
		Failed:           true,
		Message:          msg,
	}
}
