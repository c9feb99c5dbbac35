package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Storage engine Prometheus metrics.
var (
	PersistenceOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_operations_total",
			Help:      "Persistence adapter calls by operation and outcome",
		},
		[]string{"op", "status"}, // status: "ok" / "error"
	)

	PersistenceOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "persistence_operation_duration_seconds",
			Help:      "Persistence adapter call duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1, 5},
		},
		[]string{"op"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Search execution time in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"kind"}, // "search" / "count"
	)

	SearchHits = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_hits",
			Help:      "Total matching documents per search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	BulkItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_items_total",
			Help:      "Bulk items processed by action and outcome",
		},
		[]string{"action", "status"}, // status: "ok" / "error"
	)

	IndicesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "indices",
			Help:      "Number of indices in the catalog",
		},
	)

	DocumentsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "documents",
			Help:      "Number of documents across all indices",
		},
	)
)

var registerStorageOnce sync.Once

// RegisterStorageMetrics registers the storage engine metrics. Call once from main.
func RegisterStorageMetrics() {
	registerStorageOnce.Do(func() {
		prometheus.MustRegister(
			PersistenceOpsTotal,
			PersistenceOpDuration,
			SearchDuration,
			SearchHits,
			BulkItemsTotal,
			IndicesGauge,
			DocumentsGauge,
		)
	})
}

// Outcome maps an error to the status label value.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
