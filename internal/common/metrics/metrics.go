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

	PlanRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_requests_total",
			Help: "Plan requests by outcome (completed, degraded, blocked, rejected)",
		},
		[]string{"surface", "outcome"},
	)

	ValidationFindingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_validation_findings_total",
			Help: "Profile validation findings by code",
		},
		[]string{"code"},
	)

	ExternalCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planner_external_call_duration_seconds",
			Help:    "Duration of search and generation calls",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"component", "status"},
	)
)
