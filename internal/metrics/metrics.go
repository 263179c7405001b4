package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rozgaarsetu",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	negotiationTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rozgaarsetu",
			Name:      "negotiation_transitions_total",
			Help:      "Booking state transitions by action and result.",
		},
		[]string{"action", "result"},
	)

	versionConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rozgaarsetu",
			Name:      "version_conflicts_total",
			Help:      "Optimistic lock conflicts on booking writes.",
		},
	)

	syncRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rozgaarsetu",
			Name:      "sync_retries_total",
			Help:      "Sheets sync task retries.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, negotiationTransitions, versionConflicts, syncRetries)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncTransition records the outcome of a negotiation action.
func IncTransition(action, result string) {
	negotiationTransitions.WithLabelValues(action, result).Inc()
}

// IncVersionConflict counts a lost optimistic concurrency race.
func IncVersionConflict() {
	versionConflicts.Inc()
}

// IncSyncRetry counts a retried sync task.
func IncSyncRetry() {
	syncRetries.Inc()
}
