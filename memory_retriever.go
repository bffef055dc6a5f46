package personasdk

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ──────────────────────────────────────────────
// Memory Retriever — multi-strategy RAG entry point
// ──────────────────────────────────────────────

// MemoryRetriever orchestrates the strategy fan-out and the candidate merge.
//
// It fails open: any dependency failure is logged and degrades to fewer (or
// zero) results, never an error — availability over completeness.
type MemoryRetriever struct {
	runner     *StrategyRunner
	cache      *RetrievalCache
	log        zerolog.Logger
	metrics    *Metrics
	tracer     *Tracer
	maxResults int
	now        func() time.Time
}

// MemoryRetrieverOptions groups the retriever's dependencies. Only Store is
// required.
type MemoryRetrieverOptions struct {
	Store           MemoryStore
	Cache           *RetrievalCache // nil disables caching
	SimilarityFloor float64
	MaxResults      int // default DefaultMaxResults
	Logger          *zerolog.Logger
	Metrics         *Metrics
	Tracer          *Tracer
	Now             func() time.Time
}

// NewMemoryRetriever creates a retriever with the given store and options.
func NewMemoryRetriever(opts MemoryRetrieverOptions) *MemoryRetriever {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &MemoryRetriever{
		runner: NewStrategyRunner(StrategyRunnerOptions{
			Store:           opts.Store,
			SimilarityFloor: opts.SimilarityFloor,
			Logger:          opts.Logger,
			Metrics:         opts.Metrics,
			Tracer:          opts.Tracer,
			Now:             now,
		}),
		cache:      opts.Cache,
		log:        logger,
		metrics:    opts.Metrics,
		tracer:     opts.Tracer,
		maxResults: maxResults,
		now:        now,
	}
}

// RetrieveRelevantMemories returns up to 15 deduplicated records relevant to
// the topic, most recent first, scoped to one owner. It never returns an
// error: on internal failure it logs and returns an empty list.
func (r *MemoryRetriever) RetrieveRelevantMemories(ctx context.Context, topic, ownerID string) []MemoryRecord {
	if r == nil || r.runner == nil || r.runner.store == nil {
		return []MemoryRecord{}
	}

	if cached, ok := r.cache.Get(ownerID, topic); ok {
		if r.metrics != nil {
			r.metrics.CacheHits.Inc()
		}
		return cached
	}
	if r.cache != nil && r.metrics != nil {
		r.metrics.CacheMisses.Inc()
	}

	start := r.now()
	span := r.tracer.RetrievalSpan(topic, ownerID)

	candidates := r.runner.Run(ctx, topic, ownerID, span)
	records := mergeCandidates(candidates, r.maxResults)
	if records == nil {
		records = []MemoryRecord{}
	}

	span.SetAttribute("candidates", len(candidates))
	span.SetAttribute("results", len(records))
	r.tracer.EndSpan(span, "ok", "")
	r.metrics.ObserveRetrieval(r.now().Sub(start), len(records))

	r.log.Debug().
		Str("owner_id", ownerID).
		Str("topic", topic).
		Int("candidates", len(candidates)).
		Int("results", len(records)).
		Msg("memory retrieval complete")

	r.cache.Set(ownerID, topic, records)
	return records
}
