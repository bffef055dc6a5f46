package personasdk

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/atomic"
)

type failingStore struct{}

func (failingStore) Query(ctx context.Context, q MemoryQuery) ([]MemoryRecord, error) {
	return nil, errors.New("backend unavailable")
}

func (failingStore) SemanticSearch(ctx context.Context, q SemanticSearchQuery) ([]SemanticHit, error) {
	return nil, errors.New("backend unavailable")
}

type countingStore struct {
	MemoryStore
	calls atomic.Int64
}

func (s *countingStore) Query(ctx context.Context, q MemoryQuery) ([]MemoryRecord, error) {
	s.calls.Inc()
	return s.MemoryStore.Query(ctx, q)
}

func (s *countingStore) SemanticSearch(ctx context.Context, q SemanticSearchQuery) ([]SemanticHit, error) {
	s.calls.Inc()
	return s.MemoryStore.SemanticSearch(ctx, q)
}

func TestRetrieveRelevantMemories(t *testing.T) {
	store := NewInMemoryMemoryStore()
	store.Add(
		storeRecord("alice", "we talked about her garden", time.Hour),
		storeRecord("alice", "she started a garden journal", 2*time.Hour),
		storeRecord("bob", "bob also has a garden", time.Hour),
	)

	r := NewMemoryRetriever(MemoryRetrieverOptions{Store: store})
	got := r.RetrieveRelevantMemories(context.Background(), "garden", "alice")

	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	for _, rec := range got {
		if rec.OwnerID != "alice" {
			t.Errorf("leaked record from owner %q", rec.OwnerID)
		}
	}
	if got[0].Content != "we talked about her garden" {
		t.Errorf("expected most recent record first, got %q", got[0].Content)
	}
}

func TestRetrieveRelevantMemoriesDeduplicates(t *testing.T) {
	store := NewInMemoryMemoryStore()
	// One recent record reachable from multiple strategies.
	store.Add(storeRecord("alice", "we talked about her garden", time.Hour, "joy"))

	r := NewMemoryRetriever(MemoryRetrieverOptions{Store: store})
	got := r.RetrieveRelevantMemories(context.Background(), "garden", "alice")

	if len(got) != 1 {
		t.Errorf("expected record to appear once after merge, got %d", len(got))
	}
}

func TestRetrieveRelevantMemoriesFailsOpen(t *testing.T) {
	r := NewMemoryRetriever(MemoryRetrieverOptions{Store: failingStore{}})
	got := r.RetrieveRelevantMemories(context.Background(), "garden", "alice")

	if got == nil {
		t.Fatal("expected non-nil empty slice on failure")
	}
	if len(got) != 0 {
		t.Errorf("expected zero records from a failing store, got %d", len(got))
	}
}

func TestRetrieveRelevantMemoriesNilStore(t *testing.T) {
	r := NewMemoryRetriever(MemoryRetrieverOptions{})
	if got := r.RetrieveRelevantMemories(context.Background(), "garden", "alice"); len(got) != 0 {
		t.Errorf("expected empty result without a store, got %d", len(got))
	}
}

func TestRetrieveRelevantMemoriesRespectsMaxResults(t *testing.T) {
	store := NewInMemoryMemoryStore()
	for i := 0; i < 10; i++ {
		store.Add(MemoryRecord{
			ID:        uuidLike(string(rune('a' + i))),
			OwnerID:   "alice",
			Content:   "garden note " + string(rune('a'+i)),
			CreatedAt: time.Now().Add(-time.Duration(i) * time.Hour),
		})
	}

	r := NewMemoryRetriever(MemoryRetrieverOptions{Store: store, MaxResults: 3})
	got := r.RetrieveRelevantMemories(context.Background(), "garden", "alice")
	if len(got) != 3 {
		t.Errorf("expected 3 records, got %d", len(got))
	}
}

func TestRetrieveRelevantMemoriesUsesCache(t *testing.T) {
	inner := NewInMemoryMemoryStore()
	inner.Add(storeRecord("alice", "we talked about her garden", time.Hour))
	store := &countingStore{MemoryStore: inner}

	cache, err := NewRetrievalCache(time.Minute)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	defer cache.Close()

	r := NewMemoryRetriever(MemoryRetrieverOptions{Store: store, Cache: cache})

	first := r.RetrieveRelevantMemories(context.Background(), "garden", "alice")
	callsAfterFirst := store.calls.Load()
	if callsAfterFirst == 0 {
		t.Fatal("expected the first retrieval to hit the store")
	}
	cache.Wait()

	second := r.RetrieveRelevantMemories(context.Background(), "garden", "alice")
	if store.calls.Load() != callsAfterFirst {
		t.Errorf("expected the second retrieval to be served from cache")
	}
	if len(first) != len(second) {
		t.Errorf("cache returned %d records, origin returned %d", len(second), len(first))
	}
}
