package personasdk

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ──────────────────────────────────────────────
// Conversation Phase Tracker — auxiliary state machine
// ──────────────────────────────────────────────

// ConversationPhase is the coarse stage of an active conversation.
type ConversationPhase string

const (
	PhaseOpening     ConversationPhase = "opening"
	PhaseExploration ConversationPhase = "exploration"
	PhaseDeepening   ConversationPhase = "deepening"
	PhaseResolution  ConversationPhase = "resolution"
	PhaseClosing     ConversationPhase = "closing"
)

// phaseOrder fixes the monotonic progression; the tracker never moves a
// conversation to an earlier phase.
var phaseOrder = map[ConversationPhase]int{
	PhaseOpening:     0,
	PhaseExploration: 1,
	PhaseDeepening:   2,
	PhaseResolution:  3,
	PhaseClosing:     4,
}

// ConversationPhaseState is the per-conversation state. One instance exists
// per active conversation, created on start and archived on end.
type ConversationPhaseState struct {
	Phase                ConversationPhase `json:"phase"`
	Topics               map[string]bool   `json:"topics"`
	Insights             []string          `json:"insights"`
	EmotionalJourney     []string          `json:"emotional_journey"`
	RelationshipProgress float64           `json:"relationship_progress"` // 0.0-1.0
	StartedAt            time.Time         `json:"started_at"`
	LastActivity         time.Time         `json:"last_activity"`
}

// AddTopic records a distinct topic touched by the conversation.
func (s *ConversationPhaseState) AddTopic(topic string) {
	if topic == "" {
		return
	}
	if s.Topics == nil {
		s.Topics = make(map[string]bool)
	}
	s.Topics[strings.ToLower(topic)] = true
}

// SetRelationshipProgress updates the progress signal, clamped to [0, 1].
func (s *ConversationPhaseState) SetRelationshipProgress(p float64) {
	s.RelationshipProgress = clamp01(p)
}

// PhaseSignals are the per-update engagement signals feeding the transition
// rules.
type PhaseSignals struct {
	PrimaryEmotion string
	ContextDepth   float64 // 0.0-1.0
}

// insightRule extracts an insight from free-text input by fixed keyword
// triggers. Deterministic lexical matching, not NLP.
type insightRule struct {
	keyword string
	emotion string // required primary emotion, "" = any
	insight string
}

var insightRules = []insightRule{
	{keyword: "dream", insight: "User is sharing aspirations"},
	{keyword: "help", emotion: "sadness", insight: "User seeking support"},
	{keyword: "thank", insight: "User expressing gratitude"},
}

// ConversationPhaseTracker advances conversational phase from engagement
// signals. It shares the emotional observation stream with the adaptation
// engine but is otherwise independent of the trait vector.
type ConversationPhaseTracker struct {
	hooks *PersonaHooks
	now   func() time.Time
	log   zerolog.Logger
}

// ConversationPhaseTrackerOptions groups the tracker's dependencies.
type ConversationPhaseTrackerOptions struct {
	Hooks  *PersonaHooks
	Logger *zerolog.Logger
	Now    func() time.Time
}

// NewConversationPhaseTracker creates a tracker.
func NewConversationPhaseTracker(opts ConversationPhaseTrackerOptions) *ConversationPhaseTracker {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &ConversationPhaseTracker{
		hooks: opts.Hooks,
		now:   now,
		log:   logger,
	}
}

// Start creates the state for a new conversation in the opening phase.
func (t *ConversationPhaseTracker) Start(initialEmotion string) *ConversationPhaseState {
	now := t.now()
	state := &ConversationPhaseState{
		Phase:        PhaseOpening,
		Topics:       make(map[string]bool),
		StartedAt:    now,
		LastActivity: now,
	}
	if initialEmotion != "" {
		state.EmotionalJourney = append(state.EmotionalJourney, initialEmotion)
	}
	return state
}

// Update processes one turn: it appends the primary emotion to the journey,
// extracts insights from the input, and advances the phase when the priority
// rules select a later one.
func (t *ConversationPhaseTracker) Update(state *ConversationPhaseState, userInput string, sig PhaseSignals) {
	state.LastActivity = t.now()
	if sig.PrimaryEmotion != "" {
		state.EmotionalJourney = append(state.EmotionalJourney, sig.PrimaryEmotion)
	}
	state.Insights = append(state.Insights, extractInsights(userInput, sig.PrimaryEmotion)...)

	target := nextPhase(state, sig)
	if phaseOrder[target] <= phaseOrder[state.Phase] {
		return
	}

	from := state.Phase
	state.Phase = target
	t.log.Debug().
		Str("from", string(from)).
		Str("to", string(target)).
		Msg("conversation phase advanced")
	t.hooks.phaseChanged(PhaseChange{From: from, To: target})
}

// nextPhase evaluates the transition rules in priority order; the first match
// wins.
func nextPhase(state *ConversationPhaseState, sig PhaseSignals) ConversationPhase {
	switch {
	case state.RelationshipProgress > 0.8:
		return PhaseClosing
	case sig.ContextDepth > 0.8:
		return PhaseDeepening
	case len(state.Topics) > 3:
		return PhaseExploration
	case len(state.Insights) > 5:
		return PhaseResolution
	default:
		return PhaseOpening
	}
}

// extractInsights applies the fixed keyword rules to one input.
func extractInsights(input, primaryEmotion string) []string {
	lower := strings.ToLower(input)
	emotion := strings.ToLower(primaryEmotion)

	var insights []string
	for _, rule := range insightRules {
		if !strings.Contains(lower, rule.keyword) {
			continue
		}
		if rule.emotion != "" && rule.emotion != emotion {
			continue
		}
		insights = append(insights, rule.insight)
	}
	return insights
}
