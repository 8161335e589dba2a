package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(rateLimitedTotal) }

var rateLimitedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_rate_limited_total",
		Help: "Requests rejected by the per-client rate limiter.",
	},
	[]string{"route"},
)

func IncRateLimited(route string) {
	rateLimitedTotal.WithLabelValues(route).Inc()
}
