// Package metrics holds the Prometheus collectors exposed on GET /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_recommendations_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisor_upstream_request_duration_seconds",
			Help:    "Duration of calls to the market data API and model providers",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"upstream", "outcome"},
	)
)

// ObserveUpstream records one outbound call. outcome is "ok" or an error kind.
func ObserveUpstream(upstream, outcome string, d time.Duration) {
	UpstreamDuration.WithLabelValues(upstream, outcome).Observe(d.Seconds())
}
