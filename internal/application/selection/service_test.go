package selection

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/knmt/lorapick/internal/domain"
	"github.com/knmt/lorapick/internal/pkg/logger"
	"github.com/knmt/lorapick/internal/prompt"
)

type stubStore struct {
	reloadOK bool
	loras    map[string]map[string]domain.LoRAEntry
	global   domain.GlobalSettings
	exists   bool
}

func (s *stubStore) Reload(context.Context) bool { return s.reloadOK }

func (s *stubStore) Categories() []string {
	names := make([]string, 0, len(s.loras))
	for name := range s.loras {
		names = append(names, name)
	}
	return names
}

func (s *stubStore) CategoryLoRAs(category string) map[string]domain.LoRAEntry {
	if entries, ok := s.loras[category]; ok {
		return entries
	}
	return map[string]domain.LoRAEntry{}
}

func (s *stubStore) LoRAInfo(category, name string) (domain.LoRAEntry, bool) {
	entry, ok := s.loras[category][name]
	return entry, ok
}

func (s *stubStore) Global() domain.GlobalSettings { return s.global }
func (s *stubStore) FileExists(string) bool        { return s.exists }
func (s *stubStore) LastModified() time.Time       { return time.Time{} }

func newTestService(store *stubStore) *Service {
	log := logger.NewNop()
	return &Service{
		Store:    store,
		Selector: NewSelector(log),
		Prompts:  prompt.NewBuilder(),
		Logger:   log,
		Position: prompt.PositionBeginning,
	}
}

func testStore() *stubStore {
	return &stubStore{
		reloadOK: true,
		exists:   true,
		loras: map[string]map[string]domain.LoRAEntry{
			"character": {
				"alpha": {FilePath: "alpha.safetensors", StrengthDefault: 0.8, TriggerWords: []string{"a1", "a2"}, Tags: []string{"anime"}},
				"beta":  {FilePath: "beta.safetensors", StrengthDefault: 0.6, TriggerWords: []string{"b1", "b2"}},
			},
		},
		global: domain.GlobalSettings{MaxTriggerWords: 3, DefaultStrength: 0.7, FileValidation: true},
	}
}

func TestRunProducesFullOutput(t *testing.T) {
	svc := newTestService(testStore())

	out := svc.Run(domain.SelectRequest{
		Category:           "character",
		NumLoRAs:           2,
		TriggerWordCount:   2,
		Seed:               42,
		EnableTriggerWords: true,
		StrengthOverride:   -1,
		BasePrompt:         "masterpiece, best quality",
	})

	if out.Failed {
		t.Fatalf("Run() failed: %s", out.Message)
	}

	var info domain.SelectionInfo
	if err := json.Unmarshal([]byte(out.SelectedLoRAInfo), &info); err != nil {
		t.Fatalf("SelectedLoRAInfo is not valid JSON: %v", err)
	}
	if info.SelectedCount != 2 {
		t.Fatalf("SelectedCount = %d, want 2", info.SelectedCount)
	}
	if out.LoRAPath != "alpha.safetensors" {
		t.Fatalf("LoRAPath = %q, want first selected entry path", out.LoRAPath)
	}
	if out.TriggerWords == "" {
		t.Fatal("TriggerWords empty with trigger sampling enabled")
	}
	if !strings.HasSuffix(out.CombinedPrompt, "masterpiece, best quality") {
		t.Fatalf("CombinedPrompt = %q, want base prompt at the end", out.CombinedPrompt)
	}
	if !strings.HasPrefix(out.CombinedPrompt, strings.Split(out.TriggerWords, ", ")[0]) {
		t.Fatalf("CombinedPrompt = %q, want trigger words at the beginning", out.CombinedPrompt)
	}

	var debug map[string]interface{}
	if err := json.Unmarshal([]byte(out.DebugInfo), &debug); err != nil {
		t.Fatalf("DebugInfo is not valid JSON: %v", err)
	}
	if _, ok := debug["execution_info"]; !ok {
		t.Fatal("DebugInfo missing execution_info")
	}
}

func TestRunDeterministicPerSeed(t *testing.T) {
	svc := newTestService(testStore())
	req := domain.SelectRequest{
		Category:           "character",
		NumLoRAs:           1,
		TriggerWordCount:   1,
		Seed:               7,
		EnableTriggerWords: true,
		StrengthOverride:   -1,
		BasePrompt:         "scenery",
	}

	first := svc.Run(req)
	second := svc.Run(req)

	// DebugInfo carries a unique execution id and timestamp; everything
	// else must be reproducible.
	first.DebugInfo, second.DebugInfo = "", ""
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("same seed produced different outputs (-first +second):\n%s", diff)
	}
}

func TestRunUnknownCategoryReturnsErrorShape(t *testing.T) {
	svc := newTestService(testStore())

	out := svc.Run(domain.SelectRequest{
		Category:         "nope",
		NumLoRAs:         1,
		TriggerWordCount: 1,
		Seed:             -1,
	})

	if !out.Failed {
		t.Fatal("expected failure for unknown category")
	}
	if out.LoRAStrength != domain.FallbackStrength {
		t.Fatalf("LoRAStrength = %v, want %v", out.LoRAStrength, domain.FallbackStrength)
	}
	if out.LoRAPath != "" || out.TriggerWords != "" {
		t.Fatalf("expected empty path and trigger words, got %q / %q", out.LoRAPath, out.TriggerWords)
	}
	if !strings.Contains(out.SelectedLoRAInfo, `"error": true`) {
		t.Fatalf("SelectedLoRAInfo missing error flag: %s", out.SelectedLoRAInfo)
	}
	if out.CombinedPrompt != out.Message {
		t.Fatalf("CombinedPrompt = %q, want the error message", out.CombinedPrompt)
	}
}

func TestRunZeroCountIsError(t *testing.T) {
	svc := newTestService(testStore())

	out := svc.Run(domain.SelectRequest{
		Category:         "character",
		NumLoRAs:         0,
		TriggerWordCount: 1,
		Seed:             3,
	})
	if !out.Failed {
		t.Fatal("expected failure when selection is empty")
	}
}

func TestRunTriggerWordsDisabled(t *testing.T) {
	svc := newTestService(testStore())

	out := svc.Run(domain.SelectRequest{
		Category:           "character",
		NumLoRAs:           1,
		TriggerWordCount:   3,
		Seed:               5,
		EnableTriggerWords: false,
		BasePrompt:         "a quiet village",
	})

	if out.Failed {
		t.Fatalf("Run() failed: %s", out.Message)
	}
	if out.TriggerWords != "" {
		t.Fatalf("TriggerWords = %q, want empty when disabled", out.TriggerWords)
	}
	if out.CombinedPrompt != "a quiet village" {
		t.Fatalf("CombinedPrompt = %q, want untouched base prompt", out.CombinedPrompt)
	}
}

func TestRunCapsTriggerWordsAtGlobalMax(t *testing.T) {
	store := testStore()
	store.global.MaxTriggerWords = 1
	svc := newTestService(store)

	out := svc.Run(domain.SelectRequest{
		Category:           "character",
		NumLoRAs:           2,
		TriggerWordCount:   100,
		Seed:               11,
		EnableTriggerWords: true,
	})
	if out.Failed {
		t.Fatalf("Run() failed: %s", out.Message)
	}

	var info domain.SelectionInfo
	if err := json.Unmarshal([]byte(out.SelectedLoRAInfo), &info); err != nil {
		t.Fatalf("SelectedLoRAInfo parse: %v", err)
	}
	for _, detail := range info.LoRAs {
		if len(detail.TriggerWords) > 1 {
			t.Fatalf("entry %s sampled %d words, want at most 1", detail.Name, len(detail.TriggerWords))
		}
	}
}

func TestRunUsesGlobalSeedWhenRequestUnseeded(t *testing.T) {
	store := testStore()
	seed := int64(99)
	store.global.RandomSeed = &seed
	svc := newTestService(store)

	req := domain.SelectRequest{
		Category:           "character",
		NumLoRAs:           1,
		TriggerWordCount:   1,
		Seed:               -1,
		EnableTriggerWords: true,
	}
	first := svc.Run(req)
	second := svc.Run(req)

	first.DebugInfo, second.DebugInfo = "", ""
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("global seed did not make runs reproducible (-first +second):\n%s", diff)
	}
}

func TestRunStrengthOverride(t *testing.T) {
	svc := newTestService(testStore())

	out := svc.Run(domain.SelectRequest{
		Category:         "character",
		NumLoRAs:         1,
		Seed:             2,
		StrengthOverride: 5.0,
	})
	if out.Failed {
		t.Fatalf("Run() failed: %s", out.Message)
	}
	if out.LoRAStrength != domain.MaxStrength {
		t.Fatalf("LoRAStrength = %v, want clamped override %v", out.LoRAStrength, domain.MaxStrength)
	}
}
