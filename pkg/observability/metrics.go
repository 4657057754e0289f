package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Processor HTTP metrics
	processorRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "processor_requests_total",
			Help: "Total number of requests sent to the card processor",
		},
		[]string{"endpoint", "status_code"}, // status_code is "error" when no response arrived
	)

	processorRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "processor_request_duration_seconds",
			Help:    "Duration of card processor requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	processorCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "processor_circuit_state",
			Help: "Processor circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
	)
)

// ObserveProcessorRequest records one processor round trip. statusCode 0 means the request failed before a response.
func ObserveProcessorRequest(endpoint string, statusCode int, elapsed time.Duration) {
	code := "error"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	processorRequestsTotal.WithLabelValues(endpoint, code).Inc()
	processorRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// SetProcessorCircuitState publishes the breaker state
func SetProcessorCircuitState(state int) {
	processorCircuitState.Set(float64(state))
}
