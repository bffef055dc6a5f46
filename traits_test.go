package personasdk

import "testing"

func TestDefaultPersonalityTraits(t *testing.T) {
	traits := DefaultPersonalityTraits()
	if traits.Authenticity != 1.0 {
		t.Errorf("expected authenticity 1.0, got %v", traits.Authenticity)
	}
	if traits.Empathy != 0.9 || traits.Nurturing != 0.9 {
		t.Errorf("unexpected defaults: empathy %v, nurturing %v", traits.Empathy, traits.Nurturing)
	}
}

func TestTraitsGetSet(t *testing.T) {
	traits := DefaultPersonalityTraits()

	if !traits.Set("wisdom", 0.65) {
		t.Fatal("wisdom is a known trait")
	}
	if got, ok := traits.Get("wisdom"); !ok || got != 0.65 {
		t.Errorf("expected 0.65, got %v (ok=%v)", got, ok)
	}

	if traits.Set("stubbornness", 0.5) {
		t.Error("unknown trait must be rejected")
	}
	if _, ok := traits.Get("stubbornness"); ok {
		t.Error("unknown trait must not be readable")
	}
}

func TestTraitsSetClamps(t *testing.T) {
	traits := DefaultPersonalityTraits()
	traits.Set("empathy", 2.0)
	if traits.Empathy != 1.0 {
		t.Errorf("expected clamp to 1.0, got %v", traits.Empathy)
	}
	traits.Set("empathy", -0.5)
	if traits.Empathy != 0.0 {
		t.Errorf("expected clamp to 0.0, got %v", traits.Empathy)
	}
}
