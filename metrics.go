package personasdk

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the Prometheus instruments exposed by the engine.
type Metrics struct {
	StrategyQueries   *prometheus.CounterVec
	StrategyFailures  *prometheus.CounterVec
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	AdaptationPasses  prometheus.Counter
	RetrievalDuration prometheus.Histogram
	MemoriesReturned  prometheus.Histogram
}

// NewMetrics registers the instruments on reg. A nil reg uses the default
// registerer; tests pass prometheus.NewRegistry() to stay isolated.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		StrategyQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_strategy_queries_total",
			Help:      "Retrieval strategy executions by source.",
		}, []string{"source"}),
		StrategyFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_strategy_failures_total",
			Help:      "Retrieval strategy failures by source.",
		}, []string{"source"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_cache_hits_total",
			Help:      "Retrieval cache hits.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_cache_misses_total",
			Help:      "Retrieval cache misses.",
		}),
		AdaptationPasses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trait_adaptation_passes_total",
			Help:      "Completed trait adaptation passes.",
		}),
		RetrievalDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_duration_ms",
			Help:      "End-to-end memory retrieval latency in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		MemoriesReturned: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_memories_returned",
			Help:      "Number of memories returned per retrieval call.",
			Buckets:   []float64{0, 1, 3, 5, 10, 15},
		}),
	}
}

// ObserveRetrieval records one retrieval call's latency and result size.
func (m *Metrics) ObserveRetrieval(d time.Duration, results int) {
	if m == nil {
		return
	}
	m.RetrievalDuration.Observe(float64(d.Microseconds()) / 1000.0)
	m.MemoriesReturned.Observe(float64(results))
}
