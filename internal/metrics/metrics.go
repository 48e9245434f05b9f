// Package metrics holds the Prometheus collectors for destiny.
package metrics

import (
	"strconv"
	"time"

	"github.com/huangsam/destiny/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "destiny_evaluations_total",
			Help: "Total number of compatibility evaluations by star rating",
		},
		[]string{"stars"},
	)

	EvaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "destiny_evaluation_duration_seconds",
			Help:    "Duration of compatibility evaluations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10),
		},
		[]string{"source"},
	)

	SkippedCategoriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "destiny_skipped_categories_total",
			Help: "Total number of categories skipped because the pair had no matrix entry",
		},
	)

	SharesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "destiny_shares_total",
			Help: "Total number of share attempts by sink and status",
		},
		[]string{"sink", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "destiny_http_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"route", "code"},
	)
)

// Observer records evaluations and shares under a fixed source label (cli, http, mcp).
type Observer struct {
	Source string
}

// ObserveEvaluation implements core.Observer.
func (o Observer) ObserveEvaluation(stars, skipped int, elapsed time.Duration) {
	EvaluationsTotal.WithLabelValues(strconv.Itoa(stars)).Inc()
	EvaluationDuration.WithLabelValues(o.Source).Observe(elapsed.Seconds())
	if skipped > 0 {
		SkippedCategoriesTotal.Add(float64(skipped))
	}
}

// ObserveShare implements core.Observer.
func (o Observer) ObserveShare(sink string, status schema.ShareStatus) {
	SharesTotal.WithLabelValues(sink, string(status)).Inc()
}

// ObserveRequest counts one HTTP API request.
func ObserveRequest(route string, code int) {
	HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
