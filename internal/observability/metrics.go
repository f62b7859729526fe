package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DispatchTotal counts dispatch calls by task and final outcome.
	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_requests_total",
			Help: "Total dispatch calls by task and outcome.",
		},
		[]string{"task", "outcome"}, // outcome: "success", "validation_error", "all_providers_failed", "cancelled", "timeout"
	)

	// ProviderAttemptsTotal counts individual provider attempts by outcome.
	ProviderAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_attempts_total",
			Help: "Total provider call attempts by provider and outcome.",
		},
		[]string{"provider", "outcome"}, // outcome: "success", "transient", "permanent", "unknown"
	)

	// DispatchLatency tracks end-to-end dispatch latency in seconds,
	// including fallback attempts.
	DispatchLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dispatch_latency_seconds",
			Help:    "End-to-end dispatch latency in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"task", "provider"},
	)

	// TokenUsageTotal counts tokens consumed, when providers report them.
	TokenUsageTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_usage_total",
			Help: "Total tokens consumed by provider and direction.",
		},
		[]string{"provider", "direction"}, // direction: "input" or "output"
	)
)
