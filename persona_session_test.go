package personasdk

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"
)

func newTestSession(t *testing.T, opts PersonaSessionOptions) *PersonaSession {
	t.Helper()
	if opts.UserID == "" {
		opts.UserID = "alice"
	}
	s, err := NewPersonaSession(opts)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestNewPersonaSessionRequiresUserID(t *testing.T) {
	if _, err := NewPersonaSession(PersonaSessionOptions{}); err != ErrMissingUserID {
		t.Errorf("expected ErrMissingUserID, got %v", err)
	}
}

func TestSessionStartsWithDefaults(t *testing.T) {
	s := newTestSession(t, PersonaSessionOptions{})

	if s.Phase() != PhaseOpening {
		t.Errorf("sessions start in opening, got %q", s.Phase())
	}
	if traits := s.Traits(); traits != DefaultPersonalityTraits() {
		t.Errorf("sessions start with baseline traits, got %+v", traits)
	}
}

func TestSessionRetrievalWithoutStore(t *testing.T) {
	s := newTestSession(t, PersonaSessionOptions{})
	got := s.RetrieveRelevantMemories(context.Background(), "garden")
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result without a store, got %v", got)
	}
}

func TestSessionRetrievalScopedToUser(t *testing.T) {
	store := NewInMemoryMemoryStore()
	store.Add(
		storeRecord("alice", "alice loves her garden", time.Hour),
		storeRecord("bob", "bob loves his garden", time.Hour),
	)

	s := newTestSession(t, PersonaSessionOptions{
		UserID: "alice",
		Store:  store,
		Config: PersonaConfig{CacheEnabled: false},
	})
	got := s.RetrieveRelevantMemories(context.Background(), "garden")
	if len(got) != 1 || got[0].OwnerID != "alice" {
		t.Errorf("expected only alice's memories, got %+v", got)
	}
}

func TestSessionAdaptationCooldown(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	passes := 0
	s := newTestSession(t, PersonaSessionOptions{
		Hooks: &PersonaHooks{
			OnPersonalityAdapted: func(AdaptationEvent) { passes++ },
		},
		Now: func() time.Time { return current },
	})

	obs := EmotionalObservation{PrimaryEmotion: "joy", Intensity: 0.9, Timestamp: current}
	for i := 0; i < 6; i++ {
		s.ObserveEmotion(obs)
	}
	if passes != 1 {
		t.Fatalf("cooldown allows one pass, got %d", passes)
	}

	current = current.Add(6 * time.Second)
	s.ObserveEmotion(obs)
	if passes != 2 {
		t.Errorf("expected a second pass after the cooldown, got %d", passes)
	}
}

func TestSessionObserveMessage(t *testing.T) {
	s := newTestSession(t, PersonaSessionOptions{})

	obs := s.ObserveMessage("I'm so anxious and worried about work", PhaseSignals{})
	if obs.PrimaryEmotion != "anxiety" {
		t.Errorf("expected anxiety, got %q", obs.PrimaryEmotion)
	}
	if s.Stats().Observations != 1 {
		t.Errorf("detected emotion should land in the history, got %d", s.Stats().Observations)
	}

	neutral := s.ObserveMessage("the meeting moved to friday", PhaseSignals{})
	if neutral.PrimaryEmotion != "neutral" {
		t.Errorf("expected neutral, got %q", neutral.PrimaryEmotion)
	}
	if s.Stats().Observations != 1 {
		t.Error("neutral observations must not pollute the history")
	}
}

func TestSessionPhaseProgression(t *testing.T) {
	var changes []PhaseChange
	s := newTestSession(t, PersonaSessionOptions{
		Hooks: &PersonaHooks{
			OnPhaseChanged: func(c PhaseChange) { changes = append(changes, c) },
		},
	})

	for _, topic := range []string{"garden", "career", "family", "music"} {
		s.AddTopic(topic)
	}
	s.UpdateConversation("tell me more", PhaseSignals{})

	if s.Phase() != PhaseExploration {
		t.Errorf("expected exploration, got %q", s.Phase())
	}
	if len(changes) != 1 {
		t.Errorf("expected one phase change, got %d", len(changes))
	}
}

func TestSessionMemoryReflection(t *testing.T) {
	store := NewInMemoryMemoryStore()
	store.Add(storeRecord("alice", "she changed her job and career", time.Hour))

	s := newTestSession(t, PersonaSessionOptions{
		UserID: "alice",
		Store:  store,
		Config: PersonaConfig{CacheEnabled: false},
		Rand:   rand.New(rand.NewSource(3)),
	})

	got := s.GenerateMemoryReflection(context.Background(), "career")
	if !strings.Contains(got, "career") {
		t.Errorf("reflection should surface the career theme, got %q", got)
	}
}

func TestSessionMemoryReflectionNoMemories(t *testing.T) {
	s := newTestSession(t, PersonaSessionOptions{Rand: rand.New(rand.NewSource(3))})
	got := s.GenerateMemoryReflection(context.Background(), "career")
	if got == "" {
		t.Error("reflection falls back to a reflective opener when nothing is remembered")
	}
}

func TestSessionEncouragement(t *testing.T) {
	s := newTestSession(t, PersonaSessionOptions{Rand: rand.New(rand.NewSource(3))})

	// Default nurturing is 0.9, above the personalization gate.
	got := s.GenerateEncouragement("resilience")
	if !strings.Contains(got, "resilience") {
		t.Errorf("high nurturing names the strength area, got %q", got)
	}

	s.SetTrait("nurturing", 0.5)
	plain := s.GenerateEncouragement("resilience")
	if strings.Contains(plain, "resilience") {
		t.Errorf("low nurturing stays generic, got %q", plain)
	}
}

func TestSessionPlayfulResponse(t *testing.T) {
	s := newTestSession(t, PersonaSessionOptions{Rand: rand.New(rand.NewSource(3))})
	book := DefaultPhraseBook()

	playful := s.GeneratePlayfulResponse()
	if !containsPhrase(book.PlayfulRemarks, playful) {
		t.Errorf("default playfulness yields a playful remark, got %q", playful)
	}

	s.SetTrait("playfulness", 0.2)
	wise := s.GeneratePlayfulResponse()
	if !containsPhrase(book.WisdomPhrases, wise) {
		t.Errorf("low playfulness falls back to wisdom, got %q", wise)
	}
}

func containsPhrase(bank []string, phrase string) bool {
	for _, p := range bank {
		if p == phrase {
			return true
		}
	}
	return false
}

func TestSessionStats(t *testing.T) {
	s := newTestSession(t, PersonaSessionOptions{})
	s.AddTopic("garden")
	s.ObserveEmotion(EmotionalObservation{PrimaryEmotion: "joy", Intensity: 0.8})

	stats := s.Stats()
	if stats.UserID != "alice" || stats.Topics != 1 || stats.Observations != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.Phase != PhaseOpening {
		t.Errorf("expected opening phase in stats, got %q", stats.Phase)
	}
}
