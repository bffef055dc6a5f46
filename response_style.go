package personasdk

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ──────────────────────────────────────────────
// Response Style Controller — local post-processing (no LLM cost)
// ──────────────────────────────────────────────

// StyleConfig controls response style enforcement.
type StyleConfig struct {
	MaxLength        int      // rune limit, default 300, 0=disabled
	MinPreserve      int      // minimum runes to keep even if over MaxLength, default 40
	PreferredLength  int      // hint in prompt, default 150
	ForbiddenPhrases []string // phrases to remove
}

// DefaultStyleConfig returns production-ready defaults.
func DefaultStyleConfig() StyleConfig {
	return StyleConfig{
		MaxLength:       300,
		MinPreserve:     40,
		PreferredLength: 150,
		ForbiddenPhrases: []string{
			"As an AI", "as an AI assistant",
			"Is there anything else I can help you with",
			"I hope this helps",
		},
	}
}

// ResponseStyleController enforces response style rules via local
// post-processing, flavored by the current trait vector.
type ResponseStyleController struct {
	config StyleConfig
}

// NewResponseStyleController creates a style controller.
func NewResponseStyleController(config ...StyleConfig) *ResponseStyleController {
	cfg := DefaultStyleConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	return &ResponseStyleController{config: cfg}
}

// BuildStylePrompt generates a style constraint segment for prompt injection,
// derived from the persona's current traits.
func (c *ResponseStyleController) BuildStylePrompt(traits PersonalityTraits) string {
	var parts []string
	if c.config.PreferredLength > 0 {
		parts = append(parts, fmt.Sprintf("Keep replies under roughly %d words.", c.config.PreferredLength))
	}
	if traits.Directness > 0.7 {
		parts = append(parts, "Be direct; answer before elaborating.")
	}
	if traits.Playfulness > 0.7 {
		parts = append(parts, "A light, warm tone is welcome.")
	}
	if traits.Nurturing > 0.7 {
		parts = append(parts, "Acknowledge feelings before offering advice.")
	}
	if len(parts) == 0 {
		return ""
	}
	return "[style] " + strings.Join(parts, " ")
}

// PostProcess applies local corrections to generated output.
// Returns: corrected text, whether changes were made, list of violations.
func (c *ResponseStyleController) PostProcess(output string) (string, bool, []string) {
	result := output
	changed := false
	var violations []string

	for _, phrase := range c.config.ForbiddenPhrases {
		if strings.Contains(result, phrase) {
			result = strings.ReplaceAll(result, phrase, "")
			violations = append(violations, fmt.Sprintf("style.forbidden_removed:%s", phrase))
			changed = true
		}
	}
	if changed {
		result = cleanupWhitespace(result)
	}

	runeCount := utf8.RuneCountInString(result)
	if c.config.MaxLength > 0 && runeCount > c.config.MaxLength && runeCount > c.config.MinPreserve {
		truncated := truncateAtSentence(result, c.config.MaxLength)
		if truncated != result {
			result = truncated
			violations = append(violations, fmt.Sprintf("style.truncated:exceeded_%d", c.config.MaxLength))
			changed = true
		}
	}

	return strings.TrimSpace(result), changed, violations
}

// truncateAtSentence cuts text to maxRunes at the nearest sentence boundary,
// searching back no further than half the limit.
func truncateAtSentence(text string, maxRunes int) string {
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}

	sentenceEnds := []rune{'.', '!', '?', '\n'}
	bestCut := maxRunes
	for i := maxRunes - 1; i >= maxRunes/2; i-- {
		for _, sep := range sentenceEnds {
			if runes[i] == sep {
				bestCut = i + 1
				goto found
			}
		}
	}
found:
	return strings.TrimSpace(string(runes[:bestCut]))
}

func cleanupWhitespace(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}
