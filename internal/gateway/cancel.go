package gateway

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/kevin07696/cardvault-gateway/internal/domain"
	"github.com/kevin07696/cardvault-gateway/internal/domain/ports"
	"github.com/kevin07696/cardvault-gateway/pkg/observability"
)

// ChooseCancelStrategy picks how to reverse a transaction from its remote status.
// Only a transaction still waiting for settlement can be voided; anything else is refunded.
func ChooseCancelStrategy(status domain.TransactionStatus) domain.CancelStrategy {
	if status == domain.TransactionStatusSubmittedForSettlement {
		return domain.CancelVoid
	}
	return domain.CancelRefund
}

// Capture settles a previous authorization. The options are accepted for
// interface compatibility and not sent.
func (g *Gateway) Capture(ctx context.Context, amountCents int64, referenceCode string, _ *ports.TransactionOptions) (result *domain.TransactionResult, err error) {
	if referenceCode == "" {
		return nil, domain.ErrInvalidArguments.WithDetail("reference_code", referenceCode)
	}

	ctx, finish := g.begin(ctx, "capture",
		attribute.String("reference_code", referenceCode),
		attribute.Int64("amount_cents", amountCents),
	)
	defer func() { finish(result, err) }()

	result, err = g.client.Capture(ctx, amountCents, referenceCode)
	if err != nil {
		return nil, fmt.Errorf("capture %s: %w", referenceCode, err)
	}
	return result, nil
}

// Cancel reverses a transaction, voiding it when settlement has not started and refunding it otherwise
func (g *Gateway) Cancel(ctx context.Context, referenceCode string) (result *domain.TransactionResult, err error) {
	if referenceCode == "" {
		return nil, domain.ErrInvalidArguments.WithDetail("reference_code", referenceCode)
	}

	ctx, finish := g.begin(ctx, "cancel", attribute.String("reference_code", referenceCode))
	defer func() { finish(result, err) }()

	txn, err := g.client.FindTransaction(ctx, referenceCode)
	if err != nil {
		return nil, fmt.Errorf("cancel %s: %w", referenceCode, err)
	}

	strategy := ChooseCancelStrategy(txn.Status)
	observability.RecordCancelStrategy(string(strategy))

	g.logger.Info("Cancelling transaction",
		zap.String("reference_code", referenceCode),
		zap.String("status", string(txn.Status)),
		zap.String("strategy", string(strategy)),
	)

	if strategy == domain.CancelVoid {
		result, err = g.client.Void(ctx, referenceCode)
	} else {
		result, err = g.client.Refund(ctx, referenceCode)
	}
	if err != nil {
		return nil, fmt.Errorf("cancel %s: %s: %w", referenceCode, strategy, err)
	}
	return result, nil
}

// Void cancels a transaction whose settlement has not begun
func (g *Gateway) Void(ctx context.Context, referenceCode string) (result *domain.TransactionResult, err error) {
	if referenceCode == "" {
		return nil, domain.ErrInvalidArguments.WithDetail("reference_code", referenceCode)
	}

	ctx, finish := g.begin(ctx, "void", attribute.String("reference_code", referenceCode))
	defer func() { finish(result, err) }()

	result, err = g.client.Void(ctx, referenceCode)
	if err != nil {
		return nil, fmt.Errorf("void %s: %w", referenceCode, err)
	}
	return result, nil
}
