package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "museovini",
			Name:      "api_requests_total",
			Help:      "API requests by method and status class.",
		},
		[]string{"method", "status"},
	)

	tokenRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "museovini",
			Name:      "token_refresh_total",
			Help:      "Token refresh attempts by outcome.",
		},
		[]string{"outcome"},
	)

	staleAvailability = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "museovini",
			Name:      "availability_stale_discarded_total",
			Help:      "Availability responses discarded because a newer lookup was dispatched.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(apiRequests, tokenRefreshes, staleAvailability)
	})
}

// IncAPIRequest increments the request counter for a method/status pair.
func IncAPIRequest(method, status string) {
	apiRequests.WithLabelValues(method, status).Inc()
}

// IncTokenRefresh records a refresh outcome ("success" or "failure").
func IncTokenRefresh(outcome string) {
	tokenRefreshes.WithLabelValues(outcome).Inc()
}

// IncStaleAvailability counts a discarded out-of-order availability response.
func IncStaleAvailability() {
	staleAvailability.Inc()
}
