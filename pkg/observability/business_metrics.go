package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for gateway operations
const (
	OutcomeApproved = "approved"
	OutcomeDeclined = "declined"
	OutcomeError    = "error"
)

var (
	gatewayOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_operations_total",
		Help: "Total gateway adapter operations by outcome",
	}, []string{
		"operation", // authorize, purchase, capture, cancel, refund, void, create_profile, credit
		"outcome",   // approved, declined, error
	})

	gatewayOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_operation_duration_seconds",
		Help:    "End-to-end duration of gateway adapter operations",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{
		"operation",
	})

	authorizeIdentifierTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_authorize_identifier_total",
		Help: "How the card was identified on authorize requests",
	}, []string{
		"mode", // nonce, token, card
	})

	cancelStrategyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_cancel_strategy_total",
		Help: "Reversal path chosen for cancel requests",
	}, []string{
		"strategy", // void, refund
	})

	refundDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_refund_decisions_total",
		Help: "Refund-by-reference decisions",
	}, []string{
		"decision", // full, partial, rejected
	})

	vaultProfilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_vault_profiles_total",
		Help: "Customer profile creation attempts",
	}, []string{
		"outcome", // created, skipped, failed
	})
)

// RecordGatewayOperation records the outcome and duration of one adapter operation
func RecordGatewayOperation(operation, outcome string, elapsed time.Duration) {
	gatewayOperationsTotal.WithLabelValues(operation, outcome).Inc()
	gatewayOperationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// RecordAuthorizeIdentifier records how the card was identified on an authorize
func RecordAuthorizeIdentifier(mode string) {
	authorizeIdentifierTotal.WithLabelValues(mode).Inc()
}

// RecordCancelStrategy records the reversal path chosen by cancel
func RecordCancelStrategy(strategy string) {
	cancelStrategyTotal.WithLabelValues(strategy).Inc()
}

// RecordRefundDecision records a refund-by-reference decision
func RecordRefundDecision(decision string) {
	refundDecisionsTotal.WithLabelValues(decision).Inc()
}

// RecordVaultProfile records a customer profile creation outcome
func RecordVaultProfile(outcome string) {
	vaultProfilesTotal.WithLabelValues(outcome).Inc()
}
