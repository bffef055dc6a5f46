package personasdk

// ──────────────────────────────────────────────
// Personality traits — bounded scalar vector
// ──────────────────────────────────────────────

// PersonalityTraits is the persona's trait vector. Every attribute stays
// within [0, 1]; all mutation paths clamp.
type PersonalityTraits struct {
	Empathy       float64 `json:"empathy"`
	Wisdom        float64 `json:"wisdom"`
	Playfulness   float64 `json:"playfulness"`
	Directness    float64 `json:"directness"`
	Creativity    float64 `json:"creativity"`
	Introspection float64 `json:"introspection"`
	Nurturing     float64 `json:"nurturing"`
	Authenticity  float64 `json:"authenticity"`
	Adaptability  float64 `json:"adaptability"`
	Curiosity     float64 `json:"curiosity"`
}

// DefaultPersonalityTraits returns the baseline trait vector.
func DefaultPersonalityTraits() PersonalityTraits {
	return PersonalityTraits{
		Empathy:       0.9,
		Wisdom:        0.8,
		Playfulness:   0.7,
		Directness:    0.6,
		Creativity:    0.8,
		Introspection: 0.9,
		Nurturing:     0.9,
		Authenticity:  1.0,
		Adaptability:  0.8,
		Curiosity:     0.9,
	}
}

// traitFields maps trait names to accessors, for the by-name setter/getter.
func (t *PersonalityTraits) field(name string) *float64 {
	switch name {
	case "empathy":
		return &t.Empathy
	case "wisdom":
		return &t.Wisdom
	case "playfulness":
		return &t.Playfulness
	case "directness":
		return &t.Directness
	case "creativity":
		return &t.Creativity
	case "introspection":
		return &t.Introspection
	case "nurturing":
		return &t.Nurturing
	case "authenticity":
		return &t.Authenticity
	case "adaptability":
		return &t.Adaptability
	case "curiosity":
		return &t.Curiosity
	}
	return nil
}

// Get returns a trait value by name; ok is false for unknown names.
func (t PersonalityTraits) Get(name string) (value float64, ok bool) {
	f := t.field(name)
	if f == nil {
		return 0, false
	}
	return *f, true
}

// Set assigns a trait by name, clamped to [0, 1]. It returns false for
// unknown names.
func (t *PersonalityTraits) Set(name string, value float64) bool {
	f := t.field(name)
	if f == nil {
		return false
	}
	*f = clamp01(value)
	return true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
