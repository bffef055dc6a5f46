package personasdk

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ──────────────────────────────────────────────
// Memory types — records, queries, candidates
// ──────────────────────────────────────────────

// MemoryRecord is a single long-term memory entry. Records are owned by the
// backing MemoryStore and are immutable once created; the engine only reads them.
type MemoryRecord struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	EmotionalTags []string  `json:"emotional_tags,omitempty"`
	Confidence    float64   `json:"confidence"` // 0.0-1.0
}

// NewMemoryRecord creates a record with a fresh ID and the current timestamp.
func NewMemoryRecord(ownerID, content string, emotionalTags ...string) MemoryRecord {
	return MemoryRecord{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Content:       content,
		CreatedAt:     time.Now(),
		EmotionalTags: emotionalTags,
		Confidence:    1.0,
	}
}

// HasTag reports whether the record carries the given emotional tag.
func (r MemoryRecord) HasTag(tag string) bool {
	for _, t := range r.EmotionalTags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// TimeRange bounds a query to [Start, End]. A zero Start or End leaves that
// side open.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range.
func (tr TimeRange) Contains(t time.Time) bool {
	if !tr.Start.IsZero() && t.Before(tr.Start) {
		return false
	}
	if !tr.End.IsZero() && t.After(tr.End) {
		return false
	}
	return true
}

// MemoryQuery is a filtered, owner-scoped record lookup.
type MemoryQuery struct {
	OwnerID         string
	TimeRange       *TimeRange
	SemanticContext string   // free-text cue; empty = no content filter
	EmotionalTags   []string // non-empty = record must carry at least one
	Limit           int
}

// Matches reports whether a record satisfies every filter of the query.
// Owner scoping is strict: a record from another owner never matches.
func (q MemoryQuery) Matches(r MemoryRecord) bool {
	if r.OwnerID != q.OwnerID {
		return false
	}
	if q.TimeRange != nil && !q.TimeRange.Contains(r.CreatedAt) {
		return false
	}
	if q.SemanticContext != "" && KeywordRelevance(r.Content, q.SemanticContext) == 0 {
		return false
	}
	if len(q.EmotionalTags) > 0 {
		found := false
		for _, tag := range q.EmotionalTags {
			if r.HasTag(tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// SemanticSearchQuery is an owner-scoped similarity search request.
type SemanticSearchQuery struct {
	OwnerID         string
	Text            string
	SimilarityFloor float64
	TimeRange       *TimeRange
	MaxResults      int
}

// SemanticHit pairs a record with the store-reported relevance.
type SemanticHit struct {
	Record    MemoryRecord
	Relevance float64
}

// StrategySource identifies which retrieval strategy produced a candidate.
type StrategySource string

const (
	StrategySemantic     StrategySource = "semantic"
	StrategyRecent       StrategySource = "recent"
	StrategyHistorical   StrategySource = "historical"
	StrategyEmotional    StrategySource = "emotional"
	StrategyRelationship StrategySource = "relationship"
	StrategyThematic     StrategySource = "thematic"
)

// ScoredCandidate is a transient per-retrieval wrapper around a record.
// It is discarded after merging.
type ScoredCandidate struct {
	Record MemoryRecord
	Score  float64
	Source StrategySource
}

// KeywordRelevance is the placeholder similarity measure used where no real
// embedding search is available: the fraction of query terms (longer than two
// runes) found in the content, case-insensitive.
func KeywordRelevance(content, query string) float64 {
	terms := significantTerms(query)
	if len(terms) == 0 {
		return 0
	}
	lower := strings.ToLower(content)
	matched := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}

func significantTerms(text string) []string {
	var terms []string
	for _, f := range strings.Fields(strings.ToLower(text)) {
		f = strings.Trim(f, ".,!?;:\"'()")
		if len([]rune(f)) > 2 {
			terms = append(terms, f)
		}
	}
	return terms
}
