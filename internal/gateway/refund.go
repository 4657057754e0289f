package gateway

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/kevin07696/cardvault-gateway/internal/domain"
	"github.com/kevin07696/cardvault-gateway/internal/domain/ports"
	"github.com/kevin07696/cardvault-gateway/pkg/observability"
)

// RefundDecision is the refund path chosen for a requested amount
type RefundDecision string

const (
	RefundFull     RefundDecision = "full"
	RefundPartial  RefundDecision = "partial"
	RefundRejected RefundDecision = "rejected"
)

// ChooseRefund compares the requested amount with the transaction's amount on the cents scale
func ChooseRefund(amountCents int64, txn *domain.RemoteTransaction) (RefundDecision, error) {
	requested := decimal.NewFromInt(amountCents)
	refundable := txn.AmountCents()

	switch requested.Cmp(refundable) {
	case 0:
		return RefundFull, nil
	case -1:
		return RefundPartial, nil
	default:
		return RefundRejected, domain.ErrRefundExceedsAmount.
			WithDetail("requested_cents", amountCents).
			WithDetail("transaction_cents", refundable.String())
	}
}

// RefundByReference refunds all or part of a transaction identified only by its reference code.
// A request above the transaction's amount fails without any refund call.
func (g *Gateway) RefundByReference(ctx context.Context, amountCents int64, referenceCode string, _ *ports.TransactionOptions) (result *domain.TransactionResult, err error) {
	if referenceCode == "" {
		return nil, domain.ErrInvalidArguments.WithDetail("reference_code", referenceCode)
	}
	if amountCents <= 0 {
		return nil, domain.ErrInvalidArguments.WithDetail("amount_cents", amountCents)
	}

	ctx, finish := g.begin(ctx, "refund",
		attribute.String("reference_code", referenceCode),
		attribute.Int64("amount_cents", amountCents),
	)
	defer func() { finish(result, err) }()

	txn, err := g.client.FindTransaction(ctx, referenceCode)
	if err != nil {
		return nil, fmt.Errorf("refund %s: %w", referenceCode, err)
	}

	decision, err := ChooseRefund(amountCents, txn)
	observability.RecordRefundDecision(string(decision))
	if err != nil {
		g.logger.Warn("Refund rejected",
			zap.String("reference_code", referenceCode),
			zap.Int64("amount_cents", amountCents),
			zap.String("transaction_amount", txn.Amount.String()),
		)
		return nil, fmt.Errorf("refund %s: %w", referenceCode, err)
	}

	g.logger.Info("Refunding transaction",
		zap.String("reference_code", referenceCode),
		zap.Int64("amount_cents", amountCents),
		zap.String("decision", string(decision)),
	)

	if decision == RefundFull {
		result, err = g.client.Refund(ctx, referenceCode)
	} else {
		result, err = g.client.PartialRefund(ctx, amountCents, referenceCode)
	}
	if err != nil {
		return nil, fmt.Errorf("refund %s: %w", referenceCode, err)
	}
	return result, nil
}

// RefundByReferenceLegacy accepts the older call shape that also passed the payment method.
// The payment method is ignored.
func (g *Gateway) RefundByReferenceLegacy(ctx context.Context, amountCents int64, _ *domain.PaymentMethod, referenceCode string, opts *ports.TransactionOptions) (*domain.TransactionResult, error) {
	return g.RefundByReference(ctx, amountCents, referenceCode, opts)
}

// CreditWithStoredPaymentMethod pays out to a stored card without a prior transaction.
// The processor account must have unreferenced credits enabled.
func (g *Gateway) CreditWithStoredPaymentMethod(ctx context.Context, amountCents int64, pm *domain.PaymentMethod) (result *domain.TransactionResult, err error) {
	if pm == nil {
		return nil, domain.ErrPMRequired
	}

	ctx, finish := g.begin(ctx, "credit",
		attribute.String("payment_method.id", pm.ID),
		attribute.Int64("amount_cents", amountCents),
	)
	defer func() { finish(result, err) }()

	result, err = g.client.Credit(ctx, amountCents, pm)
	if err != nil {
		return nil, fmt.Errorf("credit payment method %s: %w", pm.ID, err)
	}
	return result, nil
}
