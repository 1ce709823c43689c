package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	searchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quaero",
			Name:      "search_requests_total",
			Help:      "Total number of search calls by mode",
		},
		[]string{"mode"},
	)

	searchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quaero",
			Name:      "search_duration_seconds",
			Help:      "Search call duration in seconds by mode",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"mode"},
	)

	searchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quaero",
			Name:      "search_results",
			Help:      "Result count per search call by mode",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
		[]string{"mode"},
	)
)

func init() {
	prometheus.MustRegister(searchRequestsTotal)
	prometheus.MustRegister(searchDuration)
	prometheus.MustRegister(searchResults)
}

// ObserveSearch records one search call.
func ObserveSearch(mode string, took time.Duration, results int) {
	searchRequestsTotal.WithLabelValues(mode).Inc()
	searchDuration.WithLabelValues(mode).Observe(took.Seconds())
	searchResults.WithLabelValues(mode).Observe(float64(results))
}
