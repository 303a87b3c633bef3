// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workout_generations_total",
			Help: "Total number of workout generation attempts by outcome",
		},
		[]string{"outcome"}, // generated | cached | fallback | failed
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "workout_generation_duration_seconds",
			Help: "End-to-end duration of workout generation in seconds",
		},
		[]string{"outcome"},
	)

	NormalizationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workout_normalization_failures_total",
			Help: "Total number of model responses rejected by the normalizer",
		},
		[]string{"kind"},
	)

	ImageGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workout_image_generations_total",
			Help: "Total number of exercise illustration attempts by result",
		},
		[]string{"result"}, // ok | remapped | failed
	)

	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workout_cache_requests_total",
			Help: "Response cache lookups by result",
		},
		[]string{"result"}, // hit | miss
	)

	PlanStoreOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workout_plan_store_outcomes_total",
			Help: "Tiered plan store write outcomes by tier and result",
		},
		[]string{"tier", "result"}, // stored | stripped | evicted | rejected
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "workout_http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"route", "method", "status"},
	)

	RateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "workout_rate_limit_rejections_total",
			Help: "Total number of requests rejected by the per-client window",
		},
	)
)
