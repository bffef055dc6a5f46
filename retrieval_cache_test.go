package personasdk

import (
	"testing"
	"time"
)

func TestRetrievalCacheRoundTrip(t *testing.T) {
	cache, err := NewRetrievalCache(time.Minute)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	defer cache.Close()

	records := []MemoryRecord{{ID: "r1", OwnerID: "alice", Content: "hello"}}
	cache.Set("alice", "garden", records)
	cache.Wait()

	got, ok := cache.Get("alice", "garden")
	if !ok {
		t.Fatal("expected cache hit after Wait")
	}
	if len(got) != 1 || got[0].ID != "r1" {
		t.Errorf("unexpected cached records %+v", got)
	}
}

func TestRetrievalCacheKeyScoping(t *testing.T) {
	cache, err := NewRetrievalCache(time.Minute)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	defer cache.Close()

	cache.Set("alice", "garden", []MemoryRecord{{ID: "r1"}})
	cache.Wait()

	if _, ok := cache.Get("bob", "garden"); ok {
		t.Error("cache entries are owner-scoped")
	}
	if _, ok := cache.Get("alice", "career"); ok {
		t.Error("cache entries are topic-scoped")
	}
}

func TestRetrievalCacheStats(t *testing.T) {
	cache, err := NewRetrievalCache(time.Minute)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	defer cache.Close()

	cache.Get("alice", "garden") // miss
	cache.Set("alice", "garden", []MemoryRecord{{ID: "r1"}})
	cache.Wait()
	cache.Get("alice", "garden") // hit

	hits, misses := cache.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d/%d", hits, misses)
	}
}

func TestRetrievalCacheNilSafe(t *testing.T) {
	var cache *RetrievalCache
	if _, ok := cache.Get("alice", "garden"); ok {
		t.Error("nil cache never hits")
	}
	cache.Set("alice", "garden", nil)
	cache.Wait()
	cache.Close()
	if hits, misses := cache.Stats(); hits != 0 || misses != 0 {
		t.Error("nil cache reports zero stats")
	}
}
