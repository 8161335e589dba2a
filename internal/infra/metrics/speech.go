package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(ttsLatencyMs, ttsBytesTotal) }

var (
	ttsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tts_latency_ms",
			Help:    "Speech synthesis latency distribution in milliseconds.",
			Buckets: []float64{50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"engine", "success"},
	)

	ttsBytesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tts_bytes_total",
			Help: "Audio bytes produced per engine.",
		},
		[]string{"engine"},
	)
)

func ObserveSynthesis(engine string, latencyMs, bytes int, success bool) {
	ttsLatencyMs.WithLabelValues(norm(engine), strconv.FormatBool(success)).Observe(float64(latencyMs))
	ttsBytesTotal.WithLabelValues(norm(engine)).Add(float64(bytes))
}
