package personasdk

import (
	"fmt"
	"time"
)

// ──────────────────────────────────────────────
// Conversation Opener Generator — strategy hints for natural openings
// ──────────────────────────────────────────────

// OpenerStrategy holds the generated opening strategy for the current turn.
type OpenerStrategy struct {
	Situation string // first_meeting/long_absence/late_night/normal
	Hint      string // strategy hint, not fixed text
}

// OpenerConfig controls opener generation behavior.
type OpenerConfig struct {
	MaxMentionsPerSession int // max opener injections per session, default 1
	LongAbsenceDays       int // days threshold for "long_absence", default 3
}

// DefaultOpenerConfig returns production defaults.
func DefaultOpenerConfig() OpenerConfig {
	return OpenerConfig{
		MaxMentionsPerSession: 1,
		LongAbsenceDays:       3,
	}
}

// OpenerGenerator creates opening strategy hints from the conversation state.
type OpenerGenerator struct {
	config OpenerConfig
}

// NewOpenerGenerator creates an opener generator.
func NewOpenerGenerator(config ...OpenerConfig) *OpenerGenerator {
	cfg := DefaultOpenerConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	return &OpenerGenerator{config: cfg}
}

// Generate produces an OpenerStrategy for the current turn.
// sessionOpenerCount is how many openers were already injected this session;
// past the limit it returns Situation="normal" with an empty hint.
func (g *OpenerGenerator) Generate(state *ConversationPhaseState, now time.Time, sessionOpenerCount int) *OpenerStrategy {
	if sessionOpenerCount >= g.config.MaxMentionsPerSession {
		return &OpenerStrategy{Situation: "normal"}
	}

	// Priority order: first_meeting > long_absence > late_night > normal.
	if len(state.Topics) == 0 && len(state.EmotionalJourney) == 0 {
		return &OpenerStrategy{
			Situation: "first_meeting",
			Hint:      "This is your first conversation; greet naturally, never with \"how can I help you\".",
		}
	}

	if days := int(now.Sub(state.LastActivity).Hours() / 24); days >= g.config.LongAbsenceDays {
		return &OpenerStrategy{
			Situation: "long_absence",
			Hint:      fmt.Sprintf("It has been %d days since you last talked; a casual \"it's been a while\" fits, nothing formal.", days),
		}
	}

	if hour := now.Hour(); hour >= 23 || hour < 5 {
		return &OpenerStrategy{
			Situation: "late_night",
			Hint:      "It is late at night; keep the tone relaxed and gently note the hour if the talk runs long.",
		}
	}

	return &OpenerStrategy{Situation: "normal"}
}

// FormatForPrompt returns the hint as a prompt segment (empty if no hint).
func (s *OpenerStrategy) FormatForPrompt() string {
	if s.Hint == "" {
		return ""
	}
	return "[opening] " + s.Hint
}
