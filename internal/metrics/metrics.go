// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// httpRequests counts served requests by route template and status.
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	// httpDuration tracks request latency by route template.
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// feedBuildDuration tracks the time taken to assemble a feed page.
	feedBuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feed_build_duration_seconds",
		Help:    "Time taken to build a product feed page by policy",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"policy"})

	feedEntries = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feed_entries_returned",
		Help:    "Number of products returned per feed page by policy",
		Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
	}, []string{"policy"})

	// feedPolicyFallbacks counts distance-based requests served without a viewer.
	feedPolicyFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_policy_fallbacks_total",
		Help: "Distance-dependent policies requested without viewer coordinates",
	}, []string{"policy"})

	ordersCheckedOut = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_checked_out_total",
		Help: "Total number of carts checked out into orders",
	})
)

func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func ObserveFeedBuild(policy string, entries int, elapsed time.Duration) {
	feedBuildDuration.WithLabelValues(policy).Observe(elapsed.Seconds())
	feedEntries.WithLabelValues(policy).Observe(float64(entries))
}

func FeedPolicyFallback(policy string) {
	feedPolicyFallbacks.WithLabelValues(policy).Inc()
}

func OrderCheckedOut() {
	ordersCheckedOut.Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
