package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClassificationsTotal counts finished classifications by the path that produced them
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_classifications_total",
			Help: "Total number of classified messages",
		},
		[]string{"source"}, // model, cache, rules, fallback
	)

	// FailuresTotal counts AI-assisted attempts that could not be used
	FailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_failures_total",
			Help: "Total number of failed model-assisted classifications",
		},
		[]string{"kind"}, // transport, timeout, parse, validation
	)

	// ModelCallLatency tracks model round trips in milliseconds
	ModelCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "triage_model_call_latency_ms",
			Help:    "Model call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(50, 2, 10), // 50ms to ~25s
		},
		[]string{"model", "status"},
	)

	// BatchSize tracks how many messages each batch carried
	BatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "triage_batch_size",
			Help:    "Number of messages per classified batch",
			Buckets: prometheus.ExponentialBuckets(1, 2, 9), // 1 to 256
		},
	)

	// BreakerState reports the model circuit breaker state: 0 closed, 1 half-open, 2 open
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "triage_breaker_state",
			Help: "Circuit breaker state of the model client",
		},
		[]string{"name"},
	)

	// FilteredMessagesTotal counts messages tagged by the SMTP triage filter
	FilteredMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_filtered_messages_total",
			Help: "Total number of messages processed by the SMTP triage filter",
		},
		[]string{"urgency"},
	)
)

// RecordClassification increments the classification counter for source
func RecordClassification(source string) {
	ClassificationsTotal.WithLabelValues(source).Inc()
}

// RecordFailure increments the failure counter for kind
func RecordFailure(kind string) {
	FailuresTotal.WithLabelValues(kind).Inc()
}

// RecordModelCall observes one model round trip
func RecordModelCall(model, status string, duration time.Duration) {
	ModelCallLatency.WithLabelValues(model, status).Observe(float64(duration.Milliseconds()))
}

// RecordBatch observes the size of a batch
func RecordBatch(size int) {
	BatchSize.Observe(float64(size))
}

// RecordBreakerState sets the breaker gauge
func RecordBreakerState(name string, state int) {
	BreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordFiltered increments the filter counter for urgency
func RecordFiltered(urgency string) {
	FilteredMessagesTotal.WithLabelValues(urgency).Inc()
}
