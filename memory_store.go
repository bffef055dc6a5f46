package personasdk

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is the pluggable storage contract the retrieval pipeline reads
// from. Both calls are owner-scoped: an implementation must never return
// another owner's records.
//
// Persistence format, eviction, and real semantic indexing are entirely owned
// by the implementation (see store/ for Redis and chromem backends).
type MemoryStore interface {
	// Query returns records matching the filter, newest-first order not required.
	Query(ctx context.Context, q MemoryQuery) ([]MemoryRecord, error)

	// SemanticSearch returns records scored by similarity to the query text,
	// best-first, at or above the similarity floor.
	SemanticSearch(ctx context.Context, q SemanticSearchQuery) ([]SemanticHit, error)
}

// InMemoryMemoryStore is a thread-safe in-memory MemoryStore for development
// and tests. Similarity is the keyword heuristic, not a real embedding search.
// Data is lost on restart.
type InMemoryMemoryStore struct {
	mu      sync.RWMutex
	records map[string][]MemoryRecord // by owner
}

// NewInMemoryMemoryStore creates an empty in-memory store.
func NewInMemoryMemoryStore() *InMemoryMemoryStore {
	return &InMemoryMemoryStore{
		records: make(map[string][]MemoryRecord),
	}
}

// Add inserts records into the store.
func (s *InMemoryMemoryStore) Add(records ...MemoryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.records[r.OwnerID] = append(s.records[r.OwnerID], r)
	}
}

func (s *InMemoryMemoryStore) Query(ctx context.Context, q MemoryQuery) ([]MemoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []MemoryRecord
	for _, r := range s.records[q.OwnerID] {
		if !q.Matches(r) {
			continue
		}
		result = append(result, r)
		if q.Limit > 0 && len(result) >= q.Limit {
			break
		}
	}
	return result, nil
}

func (s *InMemoryMemoryStore) SemanticSearch(ctx context.Context, q SemanticSearchQuery) ([]SemanticHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []SemanticHit
	for _, r := range s.records[q.OwnerID] {
		if q.TimeRange != nil && !q.TimeRange.Contains(r.CreatedAt) {
			continue
		}
		relevance := KeywordRelevance(r.Content, q.Text)
		if relevance < q.SimilarityFloor || relevance == 0 {
			continue
		}
		hits = append(hits, SemanticHit{Record: r, Relevance: relevance})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Relevance > hits[j].Relevance
	})
	if q.MaxResults > 0 && len(hits) > q.MaxResults {
		hits = hits[:q.MaxResults]
	}
	return hits, nil
}

var _ MemoryStore = (*InMemoryMemoryStore)(nil)
