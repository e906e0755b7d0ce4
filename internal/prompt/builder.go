// Package prompt assembles generation prompts from trigger words.
package prompt

import "strings"

// Trigger word positions understood by BuildCombined.
const (
	PositionBeginning = "beginning"
	PositionEnd       = "end"
	PositionBoth      = "both"
)

// Builder merges trigger words into base prompts and normalizes the
// resulting comma lists.
type Builder struct{}

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Combine flattens per-entry trigger word lists into one comma-joined
// string, keeping first-seen order and dropping exact duplicates.
func (b *Builder) Combine(wordLists [][]string) string {
	seen := make(map[string]struct{})
	var unique []string
	for _, words := range wordLists {
		for _, w := range words {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			unique = append(unique, w)
		}
	}
	return strings.Join(unique, ", ")
}

// BuildCombined merges triggers into base at the given position. Empty or
// whitespace-only triggers leave base untouched. Unknown positions fall
// back to beginning.
func (b *Builder) BuildCombined(base, triggers, position string) string {
	if strings.TrimSpace(triggers) == "" {
		return base
	}

	base = strings.TrimSpace(base)
	triggers = strings.TrimSpace(triggers)

	if base == "" {
		return triggers
	}

	switch position {
	case PositionEnd:
		return base + ", " + triggers
	case PositionBoth:
		return triggers + ", " + base + ", " + triggers
	default:
		return triggers + ", " + base
	}
}

// Clean normalizes a comma list: segments are trimmed, empty segments are
// dropped, and the remainder is rejoined with ", ". Clean is idempotent.
func (b *Builder) Clean(p string) string {
	if p == "" {
		return ""
	}
	parts := strings.Split(p, ",")
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, ", ")
}
