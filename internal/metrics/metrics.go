// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	// Business
	MarginsComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bayup_margins_computed_total",
			Help: "Margin computations by source",
		},
		[]string{"source"},
	)

	InvalidAmountInputs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bayup_invalid_amount_inputs_total",
			Help: "Amount fields that could not be parsed and were treated as 0",
		},
	)

	ReportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bayup_reports_generated_total",
			Help: "Reports produced by format",
		},
		[]string{"format"},
	)

	RecordMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bayup_record_mutations_total",
			Help: "Financial record writes by kind and action",
		},
		[]string{"kind", "action"},
	)

	BotCommands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bayup_bot_commands_total",
			Help: "Telegram commands handled",
		},
		[]string{"command"},
	)
)
