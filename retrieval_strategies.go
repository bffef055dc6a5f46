package personasdk

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ──────────────────────────────────────────────
// Retrieval strategies — multi-source fan-out
// ──────────────────────────────────────────────

// Semantic strategy parameters: broad similarity search over a 90-day window.
const (
	semanticWindowDays     = 90
	semanticLimit          = 20
	semanticWeight         = 1.0
	DefaultSimilarityFloor = 0.3
	day                    = 24 * time.Hour
)

// queryStrategy is one row of the strategy table: a bounded, owner-scoped
// filter query with a fixed candidate weight.
type queryStrategy struct {
	source StrategySource
	weight float64
	limit  int
	build  func(topic, ownerID string, now time.Time) MemoryQuery
}

// emotionalTaxonomy is the fixed tag set of the emotional-pattern strategy.
var emotionalTaxonomy = []string{"joy", "sadness", "anxiety", "excitement", "confusion"}

// queryStrategies is the declaration-order strategy table. The merge step
// depends on this order for first-seen-wins deduplication; strategy execution
// itself is order-insensitive.
func queryStrategies() []queryStrategy {
	return []queryStrategy{
		{
			source: StrategyRecent,
			weight: 0.9,
			limit:  10,
			build: func(topic, ownerID string, now time.Time) MemoryQuery {
				return MemoryQuery{
					OwnerID:         ownerID,
					TimeRange:       &TimeRange{Start: now.Add(-7 * day), End: now},
					SemanticContext: topic,
					Limit:           10,
				}
			},
		},
		{
			source: StrategyHistorical,
			weight: 0.7,
			limit:  10,
			build: func(topic, ownerID string, now time.Time) MemoryQuery {
				return MemoryQuery{
					OwnerID:         ownerID,
					TimeRange:       &TimeRange{Start: now.Add(-90 * day), End: now.Add(-30 * day)},
					SemanticContext: topic,
					Limit:           10,
				}
			},
		},
		{
			source: StrategyEmotional,
			weight: 0.8,
			limit:  8,
			build: func(topic, ownerID string, now time.Time) MemoryQuery {
				return MemoryQuery{
					OwnerID:         ownerID,
					SemanticContext: topic,
					EmotionalTags:   emotionalTaxonomy,
					Limit:           8,
				}
			},
		},
		{
			source: StrategyRelationship,
			weight: 0.85,
			limit:  8,
			build: func(topic, ownerID string, now time.Time) MemoryQuery {
				return MemoryQuery{
					OwnerID:         ownerID,
					SemanticContext: topic,
					Limit:           8,
				}
			},
		},
		{
			source: StrategyThematic,
			weight: 0.75,
			limit:  8,
			build: func(topic, ownerID string, now time.Time) MemoryQuery {
				return MemoryQuery{
					OwnerID:         ownerID,
					SemanticContext: topic,
					Limit:           8,
				}
			},
		},
	}
}

// StrategyRunner executes every retrieval strategy against the MemoryStore
// and returns the concatenated candidate stream in declaration order.
//
// Strategies run concurrently; each writes into its own slot, so execution
// order never affects the stream. A failing strategy is logged and counted,
// and contributes zero candidates.
type StrategyRunner struct {
	store           MemoryStore
	similarityFloor float64
	log             zerolog.Logger
	metrics         *Metrics
	tracer          *Tracer
	now             func() time.Time
}

// StrategyRunnerOptions groups the runner's dependencies.
type StrategyRunnerOptions struct {
	Store           MemoryStore
	SimilarityFloor float64 // default DefaultSimilarityFloor
	Logger          *zerolog.Logger
	Metrics         *Metrics
	Tracer          *Tracer
	Now             func() time.Time
}

// NewStrategyRunner creates a runner with the given store and options.
func NewStrategyRunner(opts StrategyRunnerOptions) *StrategyRunner {
	floor := opts.SimilarityFloor
	if floor <= 0 {
		floor = DefaultSimilarityFloor
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &StrategyRunner{
		store:           opts.Store,
		similarityFloor: floor,
		log:             logger,
		metrics:         opts.Metrics,
		tracer:          opts.Tracer,
		now:             now,
	}
}

// Run fans out all strategies and returns the candidate stream. The parent
// span, when non-nil, receives one child span per strategy.
func (r *StrategyRunner) Run(ctx context.Context, topic, ownerID string, parent *Span) []ScoredCandidate {
	strategies := queryStrategies()
	now := r.now()

	// Slot 0 is the semantic strategy, then the query strategies in order.
	slots := make([][]ScoredCandidate, 1+len(strategies))

	var wg sync.WaitGroup
	wg.Add(1 + len(strategies))

	go func() {
		defer wg.Done()
		slots[0] = r.runSemantic(ctx, topic, ownerID, now, parent)
	}()

	for i, strat := range strategies {
		i, strat := i, strat
		go func() {
			defer wg.Done()
			slots[i+1] = r.runQuery(ctx, strat, topic, ownerID, now, parent)
		}()
	}
	wg.Wait()

	var stream []ScoredCandidate
	for _, slot := range slots {
		stream = append(stream, slot...)
	}
	return stream
}

func (r *StrategyRunner) runSemantic(ctx context.Context, topic, ownerID string, now time.Time, parent *Span) []ScoredCandidate {
	span := r.tracer.StartChild(parent, "strategy:semantic", SpanKindStrategy)
	r.countQuery(StrategySemantic)

	hits, err := r.store.SemanticSearch(ctx, SemanticSearchQuery{
		OwnerID:         ownerID,
		Text:            topic,
		SimilarityFloor: r.similarityFloor,
		TimeRange:       &TimeRange{Start: now.Add(-semanticWindowDays * day), End: now},
		MaxResults:      semanticLimit,
	})
	if err != nil {
		r.strategyFailed(StrategySemantic, err)
		r.tracer.EndSpan(span, "error", err.Error())
		return nil
	}
	r.tracer.EndSpan(span, "ok", "")

	candidates := make([]ScoredCandidate, 0, len(hits))
	for _, h := range hits {
		candidates = append(candidates, ScoredCandidate{
			Record: h.Record,
			Score:  h.Relevance * semanticWeight,
			Source: StrategySemantic,
		})
	}
	return candidates
}

func (r *StrategyRunner) runQuery(ctx context.Context, strat queryStrategy, topic, ownerID string, now time.Time, parent *Span) []ScoredCandidate {
	span := r.tracer.StartChild(parent, "strategy:"+string(strat.source), SpanKindStrategy)
	r.countQuery(strat.source)

	records, err := r.store.Query(ctx, strat.build(topic, ownerID, now))
	if err != nil {
		r.strategyFailed(strat.source, err)
		r.tracer.EndSpan(span, "error", err.Error())
		return nil
	}
	r.tracer.EndSpan(span, "ok", "")

	if len(records) > strat.limit {
		records = records[:strat.limit]
	}
	candidates := make([]ScoredCandidate, 0, len(records))
	for _, rec := range records {
		candidates = append(candidates, ScoredCandidate{
			Record: rec,
			Score:  strat.weight,
			Source: strat.source,
		})
	}
	return candidates
}

func (r *StrategyRunner) countQuery(source StrategySource) {
	if r.metrics != nil {
		r.metrics.StrategyQueries.WithLabelValues(string(source)).Inc()
	}
}

func (r *StrategyRunner) strategyFailed(source StrategySource, err error) {
	r.log.Warn().Err(err).Str("strategy", string(source)).Msg("retrieval strategy failed, contributing zero candidates")
	if r.metrics != nil {
		r.metrics.StrategyFailures.WithLabelValues(string(source)).Inc()
	}
}
