// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	// FilterQueries counts filter calls by surface ("worker", "api") and whether
	// any criteria narrowed the catalog.
	FilterQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_filter_queries_total",
			Help: "Total number of career filter queries",
		},
		[]string{"surface", "criteria_applied"},
	)

	FilterMatches = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "career_filter_matches",
			Help:    "Number of careers matched per filter query",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"surface"},
	)

	CatalogRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "career_catalog_records",
			Help: "Number of records in the loaded career catalog",
		},
	)

	CatalogRejectedRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "career_catalog_rejected_records_total",
			Help: "Catalog rows rejected as malformed during loading",
		},
	)

	CatalogCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_catalog_cache_lookups_total",
			Help: "Catalog snapshot cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)

// BoolLabel renders a bool as a Prometheus label value.
func BoolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
