package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "library_checkin"

var (
	outcomeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "outcomes_total",
			Help:      "Count of processed barcodes by terminal action.",
		},
		[]string{"action"},
	)
	attemptCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "attempts_total",
			Help:      "Count of resolve/check/act attempts by result.",
		},
		[]string{"result"},
	)
	tokenFetchCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "token_fetches_total",
			Help:      "Count of OAuth client credentials requests by token source and result.",
		},
		[]string{"source", "result"},
	)
	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Subsystem: subsystem,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of upstream API calls by service.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"service"},
	)
)

var registerMetrics sync.Once

// Register all metrics.
func Register(registerer prometheus.Registerer) {
	registerMetrics.Do(func() {
		registerer.MustRegister(outcomeCounter)
		registerer.MustRegister(attemptCounter)
		registerer.MustRegister(tokenFetchCounter)
		registerer.MustRegister(upstreamDuration)
	})
}

// RecordOutcome records the terminal action for one scanned barcode.
func RecordOutcome(action string) {
	outcomeCounter.WithLabelValues(action).Inc()
}

// RecordAttempt records one pass through the check-in sequence.
func RecordAttempt(failed bool) {
	result := "success"
	if failed {
		result = "failure"
	}
	attemptCounter.WithLabelValues(result).Inc()
}

// RecordTokenFetch records a network request for an access token.
func RecordTokenFetch(source string, failed bool) {
	result := "success"
	if failed {
		result = "failure"
	}
	tokenFetchCounter.WithLabelValues(source, result).Inc()
}

// ObserveUpstream records the latency of a call to an upstream service.
func ObserveUpstream(service string, started time.Time) {
	upstreamDuration.WithLabelValues(service).Observe(time.Since(started).Seconds())
}
