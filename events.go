package personasdk

// ──────────────────────────────────────────────
// Hooks — explicit callbacks instead of an event bus
// ──────────────────────────────────────────────

// AdaptationEvent carries the full post-update trait vector and the trigger
// that fired the pass.
type AdaptationEvent struct {
	Trigger string            `json:"trigger"`
	Traits  PersonalityTraits `json:"traits"`
}

// TraitUpdate reports an explicit external trait change.
type TraitUpdate struct {
	Trait  string            `json:"trait"`
	Value  float64           `json:"value"`
	Traits PersonalityTraits `json:"traits"`
}

// PhaseChange reports a conversation phase transition.
type PhaseChange struct {
	From ConversationPhase `json:"from"`
	To   ConversationPhase `json:"to"`
}

// PersonaHooks are optional callbacks invoked by the engine. Unset fields are
// skipped. The engine never publishes to a global bus; collaborators that
// want fan-out attach their own dispatch here.
type PersonaHooks struct {
	OnPersonalityAdapted func(AdaptationEvent)
	OnTraitUpdated       func(TraitUpdate)
	OnPhaseChanged       func(PhaseChange)
}

func (h *PersonaHooks) personalityAdapted(e AdaptationEvent) {
	if h != nil && h.OnPersonalityAdapted != nil {
		h.OnPersonalityAdapted(e)
	}
}

func (h *PersonaHooks) traitUpdated(u TraitUpdate) {
	if h != nil && h.OnTraitUpdated != nil {
		h.OnTraitUpdated(u)
	}
}

func (h *PersonaHooks) phaseChanged(c PhaseChange) {
	if h != nil && h.OnPhaseChanged != nil {
		h.OnPhaseChanged(c)
	}
}
