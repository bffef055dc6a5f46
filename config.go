package personasdk

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// PersonaConfig holds the engine's tunables. Values can come from code or
// from the environment via LoadConfigFromEnv.
type PersonaConfig struct {
	// AdaptationRate is the per-pass trait increment, in (0, 1).
	AdaptationRate float64 `env:"PERSONA_ADAPTATION_RATE" envDefault:"0.05"`

	// AdaptationCooldown also bounds the retrieval cache TTL.
	AdaptationCooldown time.Duration `env:"PERSONA_ADAPTATION_COOLDOWN" envDefault:"5s"`

	// MaxMemoryResults caps the merged retrieval result list.
	MaxMemoryResults int `env:"PERSONA_MAX_MEMORY_RESULTS" envDefault:"15"`

	// SimilarityFloor is the semantic strategy's minimum relevance.
	SimilarityFloor float64 `env:"PERSONA_SIMILARITY_FLOOR" envDefault:"0.3"`

	// CacheEnabled toggles the response cache in front of the retriever.
	CacheEnabled bool `env:"PERSONA_CACHE_ENABLED" envDefault:"true"`
}

// DefaultPersonaConfig returns production defaults.
func DefaultPersonaConfig() PersonaConfig {
	return PersonaConfig{
		AdaptationRate:     DefaultAdaptationRate,
		AdaptationCooldown: 5 * time.Second,
		MaxMemoryResults:   DefaultMaxResults,
		SimilarityFloor:    DefaultSimilarityFloor,
		CacheEnabled:       true,
	}
}

// LoadConfigFromEnv parses PERSONA_* environment variables, applying defaults
// for unset values.
func LoadConfigFromEnv() (PersonaConfig, error) {
	var cfg PersonaConfig
	if err := env.Parse(&cfg); err != nil {
		return PersonaConfig{}, fmt.Errorf("parse persona config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return PersonaConfig{}, err
	}
	return cfg, nil
}

// Validate checks the invariants the engine relies on.
func (c PersonaConfig) Validate() error {
	if c.AdaptationRate <= 0 || c.AdaptationRate >= 1 {
		return fmt.Errorf("adaptation rate must be in (0, 1), got %v", c.AdaptationRate)
	}
	if c.AdaptationCooldown <= 0 {
		return fmt.Errorf("adaptation cooldown must be positive, got %v", c.AdaptationCooldown)
	}
	if c.MaxMemoryResults <= 0 {
		return fmt.Errorf("max memory results must be positive, got %d", c.MaxMemoryResults)
	}
	if c.SimilarityFloor < 0 || c.SimilarityFloor > 1 {
		return fmt.Errorf("similarity floor must be in [0, 1], got %v", c.SimilarityFloor)
	}
	return nil
}

// withDefaults fills zero fields so a zero-value config behaves like
// DefaultPersonaConfig.
func (c PersonaConfig) withDefaults() PersonaConfig {
	def := DefaultPersonaConfig()
	if c.AdaptationRate <= 0 || c.AdaptationRate >= 1 {
		c.AdaptationRate = def.AdaptationRate
	}
	if c.AdaptationCooldown <= 0 {
		c.AdaptationCooldown = def.AdaptationCooldown
	}
	if c.MaxMemoryResults <= 0 {
		c.MaxMemoryResults = def.MaxMemoryResults
	}
	if c.SimilarityFloor <= 0 {
		c.SimilarityFloor = def.SimilarityFloor
	}
	return c
}
