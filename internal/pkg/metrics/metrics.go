package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Producer
	PublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittracker_producer_publish_failures_total",
			Help: "Domain events that could not be published to the log",
		},
		[]string{"topic"},
	)

	PublishedEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittracker_producer_published_total",
			Help: "Domain events published to the log",
		},
		[]string{"topic"},
	)

	// Consumer
	EventsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittracker_consumer_events_applied_total",
			Help: "Events applied to the daily summary store",
		},
		[]string{"topic"},
	)

	EventsDuplicate = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittracker_consumer_events_duplicate_total",
			Help: "Redelivered events skipped by the dedup check",
		},
		[]string{"topic"},
	)

	EventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittracker_consumer_events_dropped_total",
			Help: "Events dropped without touching the store",
		},
		[]string{"topic", "reason"}, // malformed, unknown_topic
	)

	ApplyRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittracker_consumer_apply_retries_total",
			Help: "Transient failures retried by the consumer",
		},
		[]string{"topic"},
	)

	ApplyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fittracker_consumer_apply_duration_seconds",
			Help:    "Time spent applying one event, retries included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"topic"},
	)

	// Rollup
	RollupRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittracker_rollup_runs_total",
			Help: "Rollup materializations by period type and outcome",
		},
		[]string{"period", "status"}, // success, error
	)

	SourceDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittracker_rollup_source_degraded_total",
			Help: "Histogram fetches that fell back to an empty histogram",
		},
		[]string{"source"},
	)

	SourceBreakerOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittracker_source_breaker_opened_total",
			Help: "Times a source-service circuit breaker tripped open",
		},
		[]string{"source"},
	)

	// Dashboard cache
	DashboardCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fittracker_dashboard_cache_hits_total",
			Help: "Enhanced analytics bundles served from cache",
		},
	)

	DashboardCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fittracker_dashboard_cache_misses_total",
			Help: "Enhanced analytics bundles computed on demand",
		},
	)

	// Jobs
	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fittracker_job_duration_seconds",
			Help:    "Duration of scheduled jobs",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
		[]string{"job"},
	)
)
