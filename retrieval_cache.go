package personasdk

import (
	"time"

	"github.com/dgraph-io/ristretto"
	"go.uber.org/atomic"
)

// RetrievalCache sits in front of the MemoryRetriever, keyed by owner and
// topic, with a TTL equal to the adaptation cooldown. It does not deduplicate
// concurrent in-flight retrievals for the same key: duplicate concurrent work
// is possible and acceptable, the reads are idempotent.
type RetrievalCache struct {
	cache  *ristretto.Cache
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// NewRetrievalCache creates a cache whose entries expire after ttl.
func NewRetrievalCache(ttl time.Duration) (*RetrievalCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &RetrievalCache{cache: cache, ttl: ttl}, nil
}

func cacheKey(ownerID, topic string) string {
	return ownerID + "|" + topic
}

// Get returns the cached result for (ownerID, topic), if fresh.
func (c *RetrievalCache) Get(ownerID, topic string) ([]MemoryRecord, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.cache.Get(cacheKey(ownerID, topic))
	if !ok {
		c.misses.Inc()
		return nil, false
	}
	records, ok := v.([]MemoryRecord)
	if !ok {
		c.misses.Inc()
		return nil, false
	}
	c.hits.Inc()
	return records, true
}

// Set stores a retrieval result. Admission is asynchronous; call Wait when a
// subsequent Get must observe the entry (tests, mainly).
func (c *RetrievalCache) Set(ownerID, topic string, records []MemoryRecord) {
	if c == nil {
		return
	}
	c.cache.SetWithTTL(cacheKey(ownerID, topic), records, int64(len(records)+1), c.ttl)
}

// Wait blocks until pending writes have been admitted.
func (c *RetrievalCache) Wait() {
	if c != nil {
		c.cache.Wait()
	}
}

// Stats returns the hit and miss counts since creation.
func (c *RetrievalCache) Stats() (hits, misses int64) {
	if c == nil {
		return 0, 0
	}
	return c.hits.Load(), c.misses.Load()
}

// Close releases the underlying cache resources.
func (c *RetrievalCache) Close() {
	if c != nil {
		c.cache.Close()
	}
}
