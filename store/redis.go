package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	personasdk "github.com/cyberFlowTech/persona-engine-sdk-go"
)

// RedisMemoryStore implements personasdk.MemoryStore on Redis. Each owner's
// records live in one list, appended in creation order.
type RedisMemoryStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisStoreConfig configures the Redis store.
type RedisStoreConfig struct {
	Prefix string // key prefix, default "persona_memory"
}

// NewRedisMemoryStore creates a MemoryStore backed by an existing Redis client.
func NewRedisMemoryStore(client redis.UniversalClient, config ...RedisStoreConfig) *RedisMemoryStore {
	cfg := RedisStoreConfig{Prefix: "persona_memory"}
	if len(config) > 0 && config[0].Prefix != "" {
		cfg.Prefix = config[0].Prefix
	}
	return &RedisMemoryStore{client: client, prefix: cfg.Prefix}
}

func (s *RedisMemoryStore) key(ownerID string) string {
	return fmt.Sprintf("%s:%s:records", s.prefix, ownerID)
}

// Add appends records to their owners' lists.
func (s *RedisMemoryStore) Add(ctx context.Context, records ...personasdk.MemoryRecord) error {
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal record %s: %w", r.ID, err)
		}
		if err := s.client.RPush(ctx, s.key(r.OwnerID), data).Err(); err != nil {
			return fmt.Errorf("rpush record %s: %w", r.ID, err)
		}
	}
	return nil
}

func (s *RedisMemoryStore) load(ctx context.Context, ownerID string) ([]personasdk.MemoryRecord, error) {
	raw, err := s.client.LRange(ctx, s.key(ownerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", ownerID, err)
	}
	records := make([]personasdk.MemoryRecord, 0, len(raw))
	for _, item := range raw {
		var r personasdk.MemoryRecord
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		records = append(records, r)
	}
	return records, nil
}

// Query returns the owner's records matching every filter of q.
func (s *RedisMemoryStore) Query(ctx context.Context, q personasdk.MemoryQuery) ([]personasdk.MemoryRecord, error) {
	records, err := s.load(ctx, q.OwnerID)
	if err != nil {
		return nil, err
	}
	var matched []personasdk.MemoryRecord
	for _, r := range records {
		if !q.Matches(r) {
			continue
		}
		matched = append(matched, r)
		if q.Limit > 0 && len(matched) >= q.Limit {
			break
		}
	}
	return matched, nil
}

// SemanticSearch ranks the owner's records by keyword relevance to the query
// text. Redis holds no embeddings; pair with a semantic index via
// HybridMemoryStore for real similarity search.
func (s *RedisMemoryStore) SemanticSearch(ctx context.Context, q personasdk.SemanticSearchQuery) ([]personasdk.SemanticHit, error) {
	records, err := s.load(ctx, q.OwnerID)
	if err != nil {
		return nil, err
	}
	var hits []personasdk.SemanticHit
	for _, r := range records {
		if q.TimeRange != nil && !q.TimeRange.Contains(r.CreatedAt) {
			continue
		}
		rel := personasdk.KeywordRelevance(r.Content, q.Text)
		if rel == 0 || rel < q.SimilarityFloor {
			continue
		}
		hits = append(hits, personasdk.SemanticHit{Record: r, Relevance: rel})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Relevance > hits[j].Relevance
	})
	if q.MaxResults > 0 && len(hits) > q.MaxResults {
		hits = hits[:q.MaxResults]
	}
	return hits, nil
}

// Close closes the underlying Redis client.
func (s *RedisMemoryStore) Close() error {
	return s.client.Close()
}

var _ personasdk.MemoryStore = (*RedisMemoryStore)(nil)
