package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"

	personasdk "github.com/cyberFlowTech/persona-engine-sdk-go"
)

// ChromemSemanticIndex provides embedding-based SemanticSearch over an
// in-process chromem-go vector database, one collection per owner.
//
// It indexes content only; it is not a full MemoryStore. Compose it with a
// record store via HybridMemoryStore.
type ChromemSemanticIndex struct {
	db    *chromem.DB
	embed chromem.EmbeddingFunc

	mu          sync.Mutex
	collections map[string]*chromem.Collection
}

// NewChromemSemanticIndex creates an index. A nil embedding func uses
// chromem's default (OpenAI, requires OPENAI_API_KEY).
func NewChromemSemanticIndex(embed chromem.EmbeddingFunc) *ChromemSemanticIndex {
	return &ChromemSemanticIndex{
		db:          chromem.NewDB(),
		embed:       embed,
		collections: make(map[string]*chromem.Collection),
	}
}

func (x *ChromemSemanticIndex) collection(ownerID string) (*chromem.Collection, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if col, ok := x.collections[ownerID]; ok {
		return col, nil
	}
	col, err := x.db.GetOrCreateCollection("owner_"+ownerID, nil, x.embed)
	if err != nil {
		return nil, fmt.Errorf("chromem collection for %s: %w", ownerID, err)
	}
	x.collections[ownerID] = col
	return col, nil
}

// Add indexes records for later semantic search.
func (x *ChromemSemanticIndex) Add(ctx context.Context, records ...personasdk.MemoryRecord) error {
	for _, r := range records {
		col, err := x.collection(r.OwnerID)
		if err != nil {
			return err
		}
		doc := chromem.Document{
			ID:      r.ID,
			Content: r.Content,
			Metadata: map[string]string{
				"owner_id":   r.OwnerID,
				"created_at": r.CreatedAt.Format(time.RFC3339Nano),
			},
		}
		if err := col.AddDocument(ctx, doc); err != nil {
			return fmt.Errorf("index record %s: %w", r.ID, err)
		}
	}
	return nil
}

// SemanticSearch runs a vector query against the owner's collection and maps
// results back to records. Content and timestamps are reconstructed from the
// indexed document; emotional tags are not indexed here.
func (x *ChromemSemanticIndex) SemanticSearch(ctx context.Context, q personasdk.SemanticSearchQuery) ([]personasdk.SemanticHit, error) {
	col, err := x.collection(q.OwnerID)
	if err != nil {
		return nil, err
	}

	n := q.MaxResults
	if n <= 0 {
		n = personasdk.DefaultMaxResults
	}
	if count := col.Count(); n > count {
		n = count
	}
	if n == 0 {
		return nil, nil
	}

	results, err := col.Query(ctx, q.Text, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	var hits []personasdk.SemanticHit
	for _, res := range results {
		rel := float64(res.Similarity)
		if rel < q.SimilarityFloor {
			continue
		}
		createdAt, _ := time.Parse(time.RFC3339Nano, res.Metadata["created_at"])
		if q.TimeRange != nil && !q.TimeRange.Contains(createdAt) {
			continue
		}
		hits = append(hits, personasdk.SemanticHit{
			Record: personasdk.MemoryRecord{
				ID:        res.ID,
				OwnerID:   q.OwnerID,
				Content:   res.Content,
				CreatedAt: createdAt,
			},
			Relevance: rel,
		})
	}
	return hits, nil
}

var _ SemanticIndex = (*ChromemSemanticIndex)(nil)
