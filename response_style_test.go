package personasdk

import (
	"strings"
	"testing"
)

func TestBuildStylePrompt(t *testing.T) {
	c := NewResponseStyleController()
	traits := DefaultPersonalityTraits()

	prompt := c.BuildStylePrompt(traits)
	if !strings.HasPrefix(prompt, "[style]") {
		t.Errorf("expected style prefix, got %q", prompt)
	}
	// Default nurturing 0.9 crosses the gate, directness 0.6 does not.
	if !strings.Contains(prompt, "feelings") {
		t.Errorf("expected nurturing hint, got %q", prompt)
	}
	if strings.Contains(prompt, "Be direct") {
		t.Errorf("directness hint requires directness > 0.7, got %q", prompt)
	}
}

func TestPostProcessRemovesForbiddenPhrases(t *testing.T) {
	c := NewResponseStyleController()

	got, changed, violations := c.PostProcess("As an AI I think the garden sounds lovely. I hope this helps")
	if !changed {
		t.Fatal("expected changes")
	}
	if strings.Contains(got, "As an AI") || strings.Contains(got, "I hope this helps") {
		t.Errorf("forbidden phrases must be removed, got %q", got)
	}
	if len(violations) != 2 {
		t.Errorf("expected 2 violations, got %v", violations)
	}
}

func TestPostProcessTruncatesAtSentence(t *testing.T) {
	c := NewResponseStyleController(StyleConfig{MaxLength: 40, MinPreserve: 10})

	long := "First sentence goes right here. Second sentence runs well past the configured limit and keeps going."
	got, changed, violations := c.PostProcess(long)
	if !changed || len(violations) != 1 {
		t.Fatalf("expected one truncation violation, got changed=%v %v", changed, violations)
	}
	if got != "First sentence goes right here." {
		t.Errorf("expected cut at the sentence boundary, got %q", got)
	}
}

func TestPostProcessCleanOutputUntouched(t *testing.T) {
	c := NewResponseStyleController()
	in := "The garden sounds lovely."
	got, changed, violations := c.PostProcess(in)
	if changed || len(violations) != 0 || got != in {
		t.Errorf("clean output must pass through, got %q (%v, %v)", got, changed, violations)
	}
}
