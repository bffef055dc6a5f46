package store

import (
	"context"

	personasdk "github.com/cyberFlowTech/persona-engine-sdk-go"
)

// SemanticIndex is the similarity-search half of a MemoryStore. Both
// ChromemSemanticIndex and QdrantSemanticIndex implement it.
type SemanticIndex interface {
	Add(ctx context.Context, records ...personasdk.MemoryRecord) error
	SemanticSearch(ctx context.Context, q personasdk.SemanticSearchQuery) ([]personasdk.SemanticHit, error)
}

// HybridMemoryStore pairs a record store with a semantic index: filtered
// queries hit the record store, similarity search hits the index.
type HybridMemoryStore struct {
	Records  personasdk.MemoryStore
	Semantic SemanticIndex
}

// Query delegates to the record store.
func (h *HybridMemoryStore) Query(ctx context.Context, q personasdk.MemoryQuery) ([]personasdk.MemoryRecord, error) {
	return h.Records.Query(ctx, q)
}

// SemanticSearch delegates to the semantic index.
func (h *HybridMemoryStore) SemanticSearch(ctx context.Context, q personasdk.SemanticSearchQuery) ([]personasdk.SemanticHit, error) {
	return h.Semantic.SemanticSearch(ctx, q)
}

var _ personasdk.MemoryStore = (*HybridMemoryStore)(nil)
var _ SemanticIndex = (*QdrantSemanticIndex)(nil)
