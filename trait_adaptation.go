package personasdk

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// ──────────────────────────────────────────────
// Trait Adaptation Engine — bounded incremental mutation
// ──────────────────────────────────────────────

const (
	// adaptationThreshold is the minimum log length before any pass runs.
	adaptationThreshold = 5
	// adaptationWindow is how many recent observations a pass reads.
	adaptationWindow = 10

	highIntensityBar = 0.7
	lowPositivityBar = 0.4

	// DefaultAdaptationRate is the per-pass trait increment.
	DefaultAdaptationRate = 0.05
)

var positiveEmotions = map[string]bool{
	"joy": true, "love": true, "gratitude": true, "hope": true,
}

var negativeEmotions = map[string]bool{
	"sadness": true, "anger": true, "fear": true, "anxiety": true,
}

// TraitAdaptationEngine mutates the session's trait vector from accumulated
// emotional signal. All mutation goes through the engine's mutex: one writer
// per session, so concurrent passes can neither race nor lose updates.
//
// Only upward movement is defined (empathy/nurturing here, half-rate nudges
// from the memory path); there is no decay rule.
type TraitAdaptationEngine struct {
	mu      sync.Mutex
	traits  *PersonalityTraits
	history *EmotionalHistoryLog
	rate    float64
	hooks   *PersonaHooks
	metrics *Metrics
	log     zerolog.Logger
}

// TraitAdaptationOptions groups the engine's dependencies. Traits and History
// are required.
type TraitAdaptationOptions struct {
	Traits         *PersonalityTraits
	History        *EmotionalHistoryLog
	AdaptationRate float64 // must be in (0, 1); default DefaultAdaptationRate
	Hooks          *PersonaHooks
	Metrics        *Metrics
	Logger         *zerolog.Logger
}

// NewTraitAdaptationEngine creates an engine bound to one session's traits
// and history.
func NewTraitAdaptationEngine(opts TraitAdaptationOptions) *TraitAdaptationEngine {
	rate := opts.AdaptationRate
	if rate <= 0 || rate >= 1 {
		rate = DefaultAdaptationRate
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &TraitAdaptationEngine{
		traits:  opts.Traits,
		history: opts.History,
		rate:    rate,
		hooks:   opts.Hooks,
		metrics: opts.Metrics,
		log:     logger,
	}
}

// Adapt runs one adaptation pass over the last 10 observations. Below 5
// observations it is a silent no-op: no trait change, no event. Every pass
// that runs emits exactly one AdaptationEvent with the post-update vector.
//
// It reports whether a pass ran.
func (e *TraitAdaptationEngine) Adapt() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.history.Len() < adaptationThreshold {
		return false
	}
	window := e.history.Window(adaptationWindow)

	var sum float64
	positive, negative := 0, 0
	for _, obs := range window {
		sum += obs.Intensity
		emotion := strings.ToLower(obs.PrimaryEmotion)
		if positiveEmotions[emotion] {
			positive++
		}
		if negativeEmotions[emotion] {
			negative++
		}
	}
	avgIntensity := sum / float64(len(window))
	ratio := positivityRatio(positive, negative)

	if avgIntensity > highIntensityBar {
		e.traits.Empathy = clamp01(e.traits.Empathy + e.rate)
	}
	if ratio < lowPositivityBar {
		e.traits.Nurturing = clamp01(e.traits.Nurturing + e.rate)
	}

	e.log.Debug().
		Float64("avg_intensity", avgIntensity).
		Float64("positivity_ratio", ratio).
		Int("window", len(window)).
		Msg("trait adaptation pass")
	if e.metrics != nil {
		e.metrics.AdaptationPasses.Inc()
	}
	e.hooks.personalityAdapted(AdaptationEvent{
		Trigger: "emotional-pattern",
		Traits:  *e.traits,
	})
	return true
}

// positivityRatio is positive/(positive+negative), defined as 0 when both
// counts are zero so the pass never divides by zero.
func positivityRatio(positive, negative int) float64 {
	total := positive + negative
	if total == 0 {
		return 0
	}
	return float64(positive) / float64(total)
}

// AdaptFromMemory applies half-rate trait nudges from a retrieved memory's
// content keywords. No event is emitted.
func (e *TraitAdaptationEngine) AdaptFromMemory(record MemoryRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	content := strings.ToLower(record.Content)
	nudge := e.rate * 0.5

	if strings.Contains(content, "wisdom") || strings.Contains(content, "insight") {
		e.traits.Wisdom = clamp01(e.traits.Wisdom + nudge)
	}
	if strings.Contains(content, "creative") || strings.Contains(content, "art") || strings.Contains(content, "writing") {
		e.traits.Creativity = clamp01(e.traits.Creativity + nudge)
	}
	if strings.Contains(content, "introspect") || strings.Contains(content, "reflect") {
		e.traits.Introspection = clamp01(e.traits.Introspection + nudge)
	}
}

// SetTrait assigns a trait by name (clamped) and emits a TraitUpdate. It
// returns false for unknown trait names.
func (e *TraitAdaptationEngine) SetTrait(name string, value float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.traits.Set(name, value) {
		return false
	}
	updated, _ := e.traits.Get(name)
	e.hooks.traitUpdated(TraitUpdate{
		Trait:  name,
		Value:  updated,
		Traits: *e.traits,
	})
	return true
}

// Traits returns a copy of the current trait vector.
func (e *TraitAdaptationEngine) Traits() PersonalityTraits {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.traits
}
