// Package metrics declares the Prometheus collectors for task mutations,
// analysis runs, model training, and the HTTP API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TaskMutations counts store writes by operation (add, toggle, delete)
	// and result.
	TaskMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskinsights_task_mutations_total",
			Help: "Total number of task store mutations",
		},
		[]string{"op", "result"},
	)

	// AnalysisRuns counts dashboard analyses by result (ok, empty, error).
	AnalysisRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskinsights_analysis_runs_total",
			Help: "Total number of productivity analyses",
		},
		[]string{"result"},
	)

	// ModelFitSeconds observes completion model training time.
	ModelFitSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "taskinsights_model_fit_seconds",
			Help:    "Duration of completion model training in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// HTTPRequests counts API requests by method, route and status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskinsights_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration observes API request latency.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskinsights_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.3, 1, 3},
		},
		[]string{"method", "route"},
	)
)

// Result maps an error to the result label.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
