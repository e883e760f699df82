// Package metrics exposes Prometheus counters and histograms for the
// conversion pipeline.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Conversions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devicely_conversions_total",
			Help: "Total number of conversions",
		},
		[]string{"provider", "status"}, // status: success|unavailable|prompt_error|call_failed
	)

	ConversionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "devicely_conversion_duration_seconds",
			Help:    "End-to-end conversion latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider"},
	)

	BackendCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devicely_backend_calls_total",
			Help: "Total number of model calls, including fallback attempts",
		},
		[]string{"provider", "model", "status"}, // status: success|error
	)

	Fallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devicely_fallbacks_total",
			Help: "Conversions retried against a provider's fallback model",
		},
		[]string{"provider"},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devicely_cache_lookups_total",
			Help: "Response cache lookups",
		},
		[]string{"result"}, // result: hit|miss|error
	)

	ScriptLines = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "devicely_script_lines",
			Help:    "Number of lines in sanitized scripts",
			Buckets: prometheus.LinearBuckets(1, 2, 10),
		},
	)
)

var initOnce sync.Once

// Init registers all metrics with the default registry. Safe to call more
// than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(Conversions)
		prometheus.MustRegister(ConversionDuration)
		prometheus.MustRegister(BackendCalls)
		prometheus.MustRegister(Fallbacks)
		prometheus.MustRegister(CacheLookups)
		prometheus.MustRegister(ScriptLines)
	})
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordConversion records the outcome of one conversion.
func RecordConversion(provider, status string, duration time.Duration, lines int) {
	Conversions.WithLabelValues(provider, status).Inc()
	ConversionDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if status == "success" {
		ScriptLines.Observe(float64(lines))
	}
}

// RecordBackendCall records one model call.
func RecordBackendCall(provider, model string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	BackendCalls.WithLabelValues(provider, model, status).Inc()
}
