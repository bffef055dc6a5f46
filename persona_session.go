package personasdk

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ──────────────────────────────────────────────
// Persona Session — per-user facade over the engine
// ──────────────────────────────────────────────

// ErrMissingUserID is returned when a session is created without a user.
var ErrMissingUserID = errors.New("persona session requires a user id")

// PersonaSession binds one user's trait vector, emotional history,
// conversation state, and memory retrieval into a single facade. A session is
// safe for concurrent use.
type PersonaSession struct {
	userID    string
	cfg       PersonaConfig
	retriever *MemoryRetriever
	cache     *RetrievalCache
	history   *EmotionalHistoryLog
	adapter   *TraitAdaptationEngine
	tracker   *ConversationPhaseTracker
	detector  *EmotionDetector
	phrases   *PhraseBook
	styler    *ResponseStyleController
	opener    *OpenerGenerator

	mu             sync.Mutex
	phaseState     *ConversationPhaseState
	lastAdaptation time.Time
	openerCount    int
	rng            *rand.Rand

	log zerolog.Logger
	now func() time.Time
}

// PersonaSessionOptions configures a session. UserID is required; everything
// else has a working default.
type PersonaSessionOptions struct {
	UserID  string
	Store   MemoryStore // nil disables memory retrieval
	Config  PersonaConfig
	Phrases *PhraseBook
	Hooks   *PersonaHooks
	Logger  *zerolog.Logger
	Metrics *Metrics
	Tracer  *Tracer
	Now     func() time.Time
	Rand    *rand.Rand
}

// NewPersonaSession creates a session with baseline traits.
func NewPersonaSession(opts PersonaSessionOptions) (*PersonaSession, error) {
	if opts.UserID == "" {
		return nil, ErrMissingUserID
	}
	cfg := opts.Config.withDefaults()

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	logger = logger.With().Str("user_id", opts.UserID).Logger()

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(now().UnixNano()))
	}
	phrases := opts.Phrases
	if phrases == nil {
		phrases = DefaultPhraseBook()
	}

	var cache *RetrievalCache
	if cfg.CacheEnabled && opts.Store != nil {
		var err error
		cache, err = NewRetrievalCache(cfg.AdaptationCooldown)
		if err != nil {
			return nil, err
		}
	}

	traits := DefaultPersonalityTraits()
	history := NewEmotionalHistoryLog()

	s := &PersonaSession{
		userID: opts.UserID,
		cfg:    cfg,
		retriever: NewMemoryRetriever(MemoryRetrieverOptions{
			Store:           opts.Store,
			Cache:           cache,
			SimilarityFloor: cfg.SimilarityFloor,
			MaxResults:      cfg.MaxMemoryResults,
			Logger:          &logger,
			Metrics:         opts.Metrics,
			Tracer:          opts.Tracer,
			Now:             now,
		}),
		cache:   cache,
		history: history,
		adapter: NewTraitAdaptationEngine(TraitAdaptationOptions{
			Traits:         &traits,
			History:        history,
			AdaptationRate: cfg.AdaptationRate,
			Hooks:          opts.Hooks,
			Metrics:        opts.Metrics,
			Logger:         &logger,
		}),
		tracker: NewConversationPhaseTracker(ConversationPhaseTrackerOptions{
			Hooks:  opts.Hooks,
			Logger: &logger,
			Now:    now,
		}),
		detector: NewEmotionDetector(),
		phrases:  phrases,
		styler:   NewResponseStyleController(),
		opener:   NewOpenerGenerator(),
		rng:      rng,
		log:      logger,
		now:      now,
	}
	s.phaseState = s.tracker.Start("")
	return s, nil
}

// UserID returns the session's owner.
func (s *PersonaSession) UserID() string { return s.userID }

// RetrieveRelevantMemories returns up to the configured number of this user's
// memories relevant to the topic, most recent first. It never fails: internal
// errors degrade to an empty list.
func (s *PersonaSession) RetrieveRelevantMemories(ctx context.Context, topic string) []MemoryRecord {
	return s.retriever.RetrieveRelevantMemories(ctx, topic, s.userID)
}

// ObserveEmotion appends an observation to the history and, when the
// adaptation cooldown has elapsed, runs one adaptation pass.
func (s *PersonaSession) ObserveEmotion(obs EmotionalObservation) {
	if obs.Timestamp.IsZero() {
		obs.Timestamp = s.now()
	}
	s.history.Append(obs)

	s.mu.Lock()
	if !s.lastAdaptation.IsZero() && s.now().Sub(s.lastAdaptation) < s.cfg.AdaptationCooldown {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if s.adapter.Adapt() {
		s.mu.Lock()
		s.lastAdaptation = s.now()
		s.mu.Unlock()
	}
}

// ObserveMessage detects the emotion in a user message, records it, and
// advances the conversation. It returns the detected observation.
func (s *PersonaSession) ObserveMessage(userInput string, sig PhaseSignals) EmotionalObservation {
	obs := s.detector.Detect(userInput)
	if obs.PrimaryEmotion != "neutral" {
		s.ObserveEmotion(obs)
	}
	if sig.PrimaryEmotion == "" {
		sig.PrimaryEmotion = obs.PrimaryEmotion
	}
	s.UpdateConversation(userInput, sig)
	return obs
}

// UpdateConversation feeds one turn's signals into the phase tracker.
func (s *PersonaSession) UpdateConversation(userInput string, sig PhaseSignals) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.Update(s.phaseState, userInput, sig)
}

// AddTopic records a conversation topic.
func (s *PersonaSession) AddTopic(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phaseState.AddTopic(topic)
}

// SetRelationshipProgress updates the relationship signal, clamped to [0, 1].
func (s *PersonaSession) SetRelationshipProgress(p float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phaseState.SetRelationshipProgress(p)
}

// Phase returns the current conversation phase.
func (s *PersonaSession) Phase() ConversationPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phaseState.Phase
}

// Traits returns a copy of the current trait vector.
func (s *PersonaSession) Traits() PersonalityTraits {
	return s.adapter.Traits()
}

// SetTrait assigns a trait by name. It returns false for unknown names.
func (s *PersonaSession) SetTrait(name string, value float64) bool {
	return s.adapter.SetTrait(name, value)
}

// GenerateMemoryReflection retrieves memories for a topic and renders a
// reflective line grounded in them. Each surfaced memory also nudges the
// knowledge-adjacent traits.
func (s *PersonaSession) GenerateMemoryReflection(ctx context.Context, topic string) string {
	records := s.RetrieveRelevantMemories(ctx, topic)
	for _, r := range records {
		s.adapter.AdaptFromMemory(r)
	}

	s.mu.Lock()
	opener := s.phrases.Pick(s.rng, s.phrases.ReflectiveStatements)
	transition := s.phrases.Pick(s.rng, s.phrases.Transitions)
	s.mu.Unlock()

	insight := MemoryInsight(records)
	if insight == "" {
		return opener
	}
	return strings.Join([]string{opener, transition, insight}, " ")
}

// GenerateGreeting renders a session opener.
func (s *PersonaSession) GenerateGreeting() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phrases.Pick(s.rng, s.phrases.Greetings)
}

// GenerateEncouragement renders encouragement. With high nurturing it names
// the user's strength area directly.
func (s *PersonaSession) GenerateEncouragement(strengthArea string) string {
	s.mu.Lock()
	phrase := s.phrases.Pick(s.rng, s.phrases.Encouragement)
	s.mu.Unlock()

	if strengthArea != "" && s.adapter.Traits().Nurturing > 0.7 {
		return phrase + " Your " + strengthArea + " continues to inspire me."
	}
	return phrase
}

// GeneratePlayfulResponse renders a playful remark when playfulness is high
// enough, otherwise a wisdom phrase.
func (s *PersonaSession) GeneratePlayfulResponse() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.adapter.Traits().Playfulness > 0.6 {
		return s.phrases.Pick(s.rng, s.phrases.PlayfulRemarks)
	}
	return s.phrases.Pick(s.rng, s.phrases.WisdomPhrases)
}

// GenerateClosing renders a signature close.
func (s *PersonaSession) GenerateClosing() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phrases.Pick(s.rng, s.phrases.SignatureCloses)
}

// StylePrompt returns a prompt segment constraining response style, derived
// from the current trait vector.
func (s *PersonaSession) StylePrompt() string {
	return s.styler.BuildStylePrompt(s.adapter.Traits())
}

// PostProcessResponse applies local style corrections to generated output.
func (s *PersonaSession) PostProcessResponse(output string) (string, bool, []string) {
	return s.styler.PostProcess(output)
}

// OpeningStrategy returns the opener hint for the current turn. Hints are
// rationed per session; once the budget is spent the strategy is "normal".
func (s *PersonaSession) OpeningStrategy() *OpenerStrategy {
	s.mu.Lock()
	defer s.mu.Unlock()
	strategy := s.opener.Generate(s.phaseState, s.now(), s.openerCount)
	if strategy.Hint != "" {
		s.openerCount++
	}
	return strategy
}

// SessionStats is a point-in-time snapshot of the session.
type SessionStats struct {
	UserID       string            `json:"user_id"`
	Phase        ConversationPhase `json:"phase"`
	Topics       int               `json:"topics"`
	Insights     int               `json:"insights"`
	Observations int               `json:"observations"`
	CacheHits    int64             `json:"cache_hits"`
	CacheMisses  int64             `json:"cache_misses"`
	Traits       PersonalityTraits `json:"traits"`
}

// Stats returns a snapshot of the session's state.
func (s *PersonaSession) Stats() SessionStats {
	hits, misses := s.cache.Stats()

	s.mu.Lock()
	phase := s.phaseState.Phase
	topics := len(s.phaseState.Topics)
	insights := len(s.phaseState.Insights)
	s.mu.Unlock()

	return SessionStats{
		UserID:       s.userID,
		Phase:        phase,
		Topics:       topics,
		Insights:     insights,
		Observations: s.history.Len(),
		CacheHits:    hits,
		CacheMisses:  misses,
		Traits:       s.adapter.Traits(),
	}
}

// Close releases the session's cache resources.
func (s *PersonaSession) Close() {
	s.cache.Close()
}
