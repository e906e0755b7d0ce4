// Package selection implements the LoRA sampling step: seeded random
// selection, strength weighting, trigger word sampling and the
// orchestration that turns one request into the six host-facing outputs.
package selection

import (
	"math/rand"
	"sort"
	"time"

	"github.com/knmt/lorapick/internal/domain"
	"github.com/knmt/lorapick/internal/ports"
	"github.com/knmt/lorapick/internal/prompt"
)

// Selector performs sampling without replacement over category entries.
// Every sampling call owns its generator; seeding one call never affects
// another.
type Selector struct {
	log     ports.Logger
	prompts *prompt.Builder
}

// NewSelector creates a Selector.
func NewSelector(log ports.Logger) *Selector {
	return &Selector{log: log, prompts: prompt.NewBuilder()}
}

// newRand returns a caller-owned generator. Seeds below zero give
// time-seeded, non-deterministic sampling.
func newRand(seed int64) *rand.Rand {
	if seed < 0 {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(seed))
}

// SelectRandom picks min(count, len(loras)) distinct entries. Entries are
// visited in sorted-name order before sampling so a fixed seed always
// yields the same result. When count covers the whole category the full
// population is returned in sorted-name order.
func (s *Selector) SelectRandom(loras map[string]domain.LoRAEntry, count int, seed int64) []domain.SelectedLoRA {
	if len(loras) == 0 {
		s.log.Warn("no loras available for selection", nil)
		return nil
	}
	if count <= 0 {
		return nil
	}

	names := make([]string, 0, len(loras))
	for name := range loras {
		names = append(names, name)
	}
	sort.Strings(names)

	if count >= len(names) {
		selected := make([]domain.SelectedLoRA, 0, len(names))
		for _, name := range names {
			selected = append(selected, domain.SelectedLoRA{Name: name, Entry: loras[name]})
		}
		return selected
	}

	rng := newRand(seed)
	perm := rng.Perm(len(names))
	selected := make([]domain.SelectedLoRA, 0, count)
	for _, idx := range perm[:count] {
		selected = append(selected, domain.SelectedLoRA{Name: names[idx], Entry: loras[names[idx]]})
	}

	s.log.Debug("loras selected", map[string]interface{}{
		"count": len(selected),
		"seed":  seed,
	})
	return selected
}

// SelectTriggerWords samples min(count, available) trigger words from the
// entry without replacement. The full set is returned in source order when
// count covers it.
func (s *Selector) SelectTriggerWords(entry domain.LoRAEntry, count int, seed int64) []string {
	words := entry.TriggerWords
	if len(words) == 0 {
		return nil
	}
	if count <= 0 {
		return nil
	}

	if count >= len(words) {
		out := make([]string, len(words))
		copy(out, words)
		return out
	}

	rng := newRand(seed)
	perm := rng.Perm(len(words))
	out := make([]string, 0, count)
	for _, idx := range perm[:count] {
		out = append(out, words[idx])
	}
	return out
}

// WeightedStrengths derives one strength per selected entry: the override
// when it is positive, otherwise the entry default, each clamped to the
// valid range.
func (s *Selector) WeightedStrengths(selected []domain.SelectedLoRA, override float64) []float64 {
	strengths := make([]float64, 0, len(selected))
	for _, sel := range selected {
		strength := sel.Entry.StrengthDefault
		if override > 0 {
			strength = override
		}
		strengths = append(strengths, domain.ClampStrength(strength))
	}
	return strengths
}

// FormatInfo builds the structured selected_lora_info record: per-entry
// details, the mean strength and the combined deduplicated trigger word
// string.
func (s *Selector) FormatInfo(selected []domain.SelectedLoRA, strengths []float64, words [][]string) domain.SelectionInfo {
	info := domain.SelectionInfo{
		SelectedCount:   len(selected),
		LoRAs:           make([]domain.LoRADetail, 0, len(selected)),
		AllTriggerWords: s.prompts.Combine(words),
	}

	var total float64
	for i, sel := range selected {
		strength := domain.FallbackStrength
		if i < len(strengths) {
			strength = strengths[i]
		}
		entryWords := []string{}
		if i < len(words) && words[i] != nil {
			entryWords = words[i]
		}
		tags := sel.Entry.Tags
		if tags == nil {
			tags = []string{}
		}

		info.LoRAs = append(info.LoRAs, domain.LoRADetail{
			Name:         sel.Name,
			FilePath:     sel.Entry.FilePath,
			Strength:     strength,
			TriggerWords: entryWords,
			Tags:         tags,
		})
		total += strength
	}

	if len(selected) > 0 {
		info.CombinedStrength = total / float64(len(selected))
	}
	return info
}

// ValidatePaths reports file existence per selected entry using the
// store's resolution rules.
func (s *Selector) ValidatePaths(selected []domain.SelectedLoRA, exists func(string) bool) []bool {
	results := make([]bool, 0, len(selected))
	for _, sel := range selected {
		ok := exists(sel.Entry.FilePath)
		if !ok {
			s.log.Warn("lora file not found", map[string]interface{}{
				"name": sel.Name,
				"path": sel.Entry.FilePath,
			})
		}
		results = append(results, ok)
	}
	return results
}
