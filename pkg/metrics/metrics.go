// Package metrics defines the Prometheus collectors recorded by the search
// index.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for the index.
type Metrics struct {
	DocumentsAddedTotal   *prometheus.CounterVec
	DocumentsRemovedTotal *prometheus.CounterVec
	IndexedDocuments      prometheus.Gauge
	IndexedWords          prometheus.Gauge
	QueriesTotal          *prometheus.CounterVec
	QueryLatency          *prometheus.HistogramVec
	QueryResultsCount     prometheus.Histogram
	AccumulatorShards     prometheus.Histogram
	BatchQueriesTotal     prometheus.Counter
	QueryCacheTotal       *prometheus.CounterVec
}

// New creates all collectors and registers them on reg. A nil reg uses
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		DocumentsAddedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsearch_documents_added_total",
				Help: "Documents add attempts by outcome (ok, invalid_argument).",
			},
			[]string{"outcome"},
		),
		DocumentsRemovedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsearch_documents_removed_total",
				Help: "Documents removed by execution mode.",
			},
			[]string{"mode"},
		),
		IndexedDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "docsearch_indexed_documents",
				Help: "Number of documents currently indexed.",
			},
		),
		IndexedWords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "docsearch_indexed_words",
				Help: "Number of distinct words currently indexed.",
			},
		),
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsearch_queries_total",
				Help: "Queries by operation (find, match), execution mode and outcome.",
			},
			[]string{"operation", "mode", "outcome"},
		),
		QueryLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docsearch_query_latency_seconds",
				Help:    "Query latency in seconds.",
				Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"operation", "mode"},
		),
		QueryResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "docsearch_query_results_count",
				Help:    "Number of ranked results returned per find query.",
				Buckets: []float64{0, 1, 2, 3, 4, 5},
			},
		),
		AccumulatorShards: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "docsearch_accumulator_shards",
				Help:    "Shard count of the relevance accumulator per parallel query.",
				Buckets: prometheus.ExponentialBuckets(1, 4, 6),
			},
		),
		BatchQueriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "docsearch_batch_queries_total",
				Help: "Queries submitted through the batch helper.",
			},
		),
		QueryCacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsearch_query_cache_total",
				Help: "Result cache lookups by result (hit, miss).",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		m.DocumentsAddedTotal,
		m.DocumentsRemovedTotal,
		m.IndexedDocuments,
		m.IndexedWords,
		m.QueriesTotal,
		m.QueryLatency,
		m.QueryResultsCount,
		m.AccumulatorShards,
		m.BatchQueriesTotal,
		m.QueryCacheTotal,
	)

	return m
}
