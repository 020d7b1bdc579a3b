package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the service's Prometheus collectors.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	ScoresComputed     prometheus.Counter
	ScoreDistribution  prometheus.Histogram
	AICalls            *prometheus.CounterVec
	TokenInvalidations *prometheus.CounterVec
	TasksByState       *prometheus.GaugeVec
}

// New registers and returns the service metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contentboost_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contentboost_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		ScoresComputed: factory.NewCounter(prometheus.CounterOpts{
			Name: "contentboost_seo_scores_computed_total",
			Help: "SEO score computations performed.",
		}),
		ScoreDistribution: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "contentboost_seo_score",
			Help:    "Distribution of computed total SEO scores.",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		AICalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contentboost_ai_calls_total",
			Help: "AI generation calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		TokenInvalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contentboost_token_invalidations_total",
			Help: "Access token invalidations by reason (expired, revoked, logout).",
		}, []string{"reason"}),
		TasksByState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "contentboost_bulk_tasks",
			Help: "Bulk optimization tasks by state.",
		}, []string{"state"}),
	}
}
