package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TasksHandledTotal counts handled external tasks by topic and outcome.
	TasksHandledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasks_handled_total",
			Help: "Total number of external tasks handled by this worker.",
		},
		[]string{"topic", "status"}, // status: completed / failed
	)

	// TaskHandleDuration observes handler latency per topic.
	TaskHandleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "task_handle_duration_seconds",
			Help:    "Time spent in the task handler, per topic.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"topic"},
	)

	// HttpRequestsTotal counts HTTP requests served by the lead API.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of http requests handled by the service.",
		},
		[]string{"path", "method", "code"},
	)

	// ProcessInstancesStartedTotal counts process instance starts by
	// where they came from (api / webhook) and whether they succeeded.
	ProcessInstancesStartedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "process_instances_started_total",
			Help: "Total number of lead-enrichment process instances started.",
		},
		[]string{"source", "status"},
	)

	// ConnectionUp reports whether the last topology probe reached the cluster.
	ConnectionUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "zeebe_connection_up",
			Help: "Whether the Zeebe cluster was reachable on the last probe. 1 if reachable, 0 otherwise.",
		},
		[]string{"cluster"},
	)
)
