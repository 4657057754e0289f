package gateway

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/kevin07696/cardvault-gateway/internal/domain"
	"github.com/kevin07696/cardvault-gateway/internal/domain/ports"
	"github.com/kevin07696/cardvault-gateway/pkg/observability"
	"github.com/kevin07696/cardvault-gateway/pkg/timeutil"
)

const tracerName = "github.com/kevin07696/cardvault-gateway/internal/gateway"

// Gateway translates the host's generic payment operations into processor calls.
//
// It holds only immutable state and may be shared between goroutines. The
// payment method passed to an operation is mutated in place; callers must not
// run two operations on the same payment method concurrently.
type Gateway struct {
	config Config
	client ports.ProcessorClient
	store  ports.PaymentMethodStore
	logger *zap.Logger
	tracer trace.Tracer
	now    timeutil.Clock
}

// Option customizes a Gateway
type Option func(*Gateway)

// WithPaymentMethodStore persists vault fields after they are written back.
// Without a store the changes stay on the in-memory payment method only.
func WithPaymentMethodStore(store ports.PaymentMethodStore) Option {
	return func(g *Gateway) { g.store = store }
}

// WithClock replaces the wall clock used for the nonce window
func WithClock(now timeutil.Clock) Option {
	return func(g *Gateway) { g.now = now }
}

// WithTracerProvider replaces the global OpenTelemetry tracer provider
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(g *Gateway) { g.tracer = tp.Tracer(tracerName) }
}

// New creates a gateway bound to one processor client
func New(cfg Config, client ports.ProcessorClient, logger *zap.Logger, opts ...Option) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.WrapError(domain.ErrorCodeConfigInvalid, "processor client is required", nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	g := &Gateway{
		config: cfg,
		client: client,
		logger: logger,
		tracer: otel.GetTracerProvider().Tracer(tracerName),
		now:    timeutil.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	logger.Info("Gateway adapter initialized",
		zap.String("environment", string(cfg.Environment)),
		zap.String("merchant_id", cfg.MerchantID),
		zap.Bool("merchant_account", cfg.HasMerchantAccount()),
		zap.Bool("payment_method_store", g.store != nil),
	)

	return g, nil
}

// Config returns the gateway's configuration
func (g *Gateway) Config() Config {
	return g.config
}

// PaymentProfilesSupported reports whether the host should create customer profiles
// before a sale. It is false: profiles are created after the sale so that 3-D Secure
// can run on the transaction itself.
func (g *Gateway) PaymentProfilesSupported() bool {
	return false
}

// begin starts the span and timer for one operation and returns the function that closes them
func (g *Gateway) begin(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(*domain.TransactionResult, error)) {
	ctx, span := g.tracer.Start(ctx, "gateway."+operation, trace.WithAttributes(attrs...))
	start := time.Now()

	return ctx, func(result *domain.TransactionResult, err error) {
		outcome := observability.OutcomeApproved
		switch {
		case err != nil:
			outcome = observability.OutcomeError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case result != nil && !result.Success():
			outcome = observability.OutcomeDeclined
		}
		span.SetAttributes(attribute.String("gateway.outcome", outcome))
		span.End()

		observability.RecordGatewayOperation(operation, outcome, time.Since(start))
	}
}

// save writes the vault fields back through the configured store
func (g *Gateway) save(ctx context.Context, pm *domain.PaymentMethod) error {
	pm.UpdatedAt = g.now()
	if g.store == nil {
		return nil
	}
	if err := g.store.SaveVaultFields(ctx, pm); err != nil {
		g.logger.Error("Failed to persist payment method vault fields",
			zap.String("payment_method_id", pm.ID),
			zap.Error(err),
		)
		return fmt.Errorf("save payment method %s: %w", pm.ID, err)
	}
	return nil
}
