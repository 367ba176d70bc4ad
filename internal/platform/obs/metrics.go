package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated registry served on /metrics.
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path"},
	)

	// OperationDuration is observed by Time.
	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "operation_duration_seconds", Help: "Duration of internal operations.", Buckets: prometheus.DefBuckets},
		[]string{"op", "outcome"},
	)

	NodesBuilt = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "grouping_nodes_total", Help: "Condensed nodes produced, by kind."},
		[]string{"kind"},
	)
	MatrixCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "matrix_cache_lookups_total", Help: "Travel matrix cache lookups by result."},
		[]string{"cache", "result"},
	)
	SolverPolls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "solver_polls_total", Help: "Async solver status polls by status."},
		[]string{"status"},
	)
)

var regOnce sync.Once

// Register adds every collector to Registry. Safe to call more than once.
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(
			HTTPRequests,
			HTTPDuration,
			OperationDuration,
			NodesBuilt,
			MatrixCacheLookups,
			SolverPolls,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
}
