// Package metrics exposes Prometheus instrumentation for the service.
// Collectors are package-level and registered once at import time; the
// router mounts Handler() on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AddressSearchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parkfinder_address_searches_total",
		Help: "Total number of address prefix searches",
	})
	RecommendationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parkfinder_recommendations_total",
		Help: "Total number of parking recommendations produced",
	})
	RecommendationFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parkfinder_recommendation_failures_total",
		Help: "Recommendation requests that failed, by reason",
	}, []string{"reason"})
	PositionUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parkfinder_position_updates_total",
		Help: "Total number of trip position updates evaluated",
	})
	RerouteSuggestionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parkfinder_reroute_suggestions_total",
		Help: "Reroute suggestions issued, by trigger source",
	}, []string{"source"})
	RerouteDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parkfinder_reroute_decisions_total",
		Help: "User decisions on reroute suggestions",
	}, []string{"decision"})
	DegradedPollsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parkfinder_degraded_polls_total",
		Help: "Availability polls that failed against the candidate source",
	})
	CandidateCount = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "parkfinder_candidate_count",
		Help:    "Number of candidates considered per recommendation",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
	})
)

func init() {
	prometheus.MustRegister(
		AddressSearchesTotal,
		RecommendationsTotal,
		RecommendationFailuresTotal,
		PositionUpdatesTotal,
		RerouteSuggestionsTotal,
		RerouteDecisionsTotal,
		DegradedPollsTotal,
		CandidateCount,
	)
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
