package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resumeapp_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resumeapp_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Ingestion
	IngestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resumeapp_ingestions_total",
			Help: "Resume ingestion runs by outcome and the state they ended in",
		},
		[]string{"outcome", "state"},
	)

	IngestionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resumeapp_ingestion_duration_seconds",
			Help:    "Duration of one resume ingestion run",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
	)

	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resumeapp_events_total",
			Help: "Storage notifications consumed, by source and result",
		},
		[]string{"source", "result"},
	)

	// LLM
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resumeapp_llm_requests_total",
			Help: "Language model invocations by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	LLMCircuitState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "resumeapp_llm_circuit_open",
			Help: "1 while the language model circuit breaker is open",
		},
		[]string{"provider"},
	)
)
