package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(turnsTotal) }

var turnsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "turns_total",
		Help: "Conversational turns handled, labeled by outcome.",
	},
	[]string{"outcome"}, // 'ok', 'storage_unavailable', 'model_unavailable', 'malformed_output', ...
)

func IncTurn(outcome string) {
	turnsTotal.WithLabelValues(norm(outcome)).Inc()
}
