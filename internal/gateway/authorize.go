package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/kevin07696/cardvault-gateway/internal/domain"
	"github.com/kevin07696/cardvault-gateway/internal/domain/ports"
	"github.com/kevin07696/cardvault-gateway/pkg/observability"
)

// NonceWindow is how long after creation a vault token is still a single-use nonce.
// From that age on it is treated as a permanent vault token.
const NonceWindow = 2 * time.Minute

// Card identification modes
const (
	IdentifiedByNonce = "nonce"
	IdentifiedByToken = "token"
	IdentifiedByCard  = "card"
)

// Authorize reserves funds on the card. On success the processor's vault
// identifiers are written back to the payment method and saved.
func (g *Gateway) Authorize(ctx context.Context, amountCents int64, pm *domain.PaymentMethod, opts *ports.TransactionOptions) (*domain.TransactionResult, error) {
	return g.authorize(ctx, "authorize", amountCents, pm, opts.Clone())
}

// Purchase is Authorize with immediate submission for settlement
func (g *Gateway) Purchase(ctx context.Context, amountCents int64, pm *domain.PaymentMethod, opts *ports.TransactionOptions) (*domain.TransactionResult, error) {
	req := opts.Clone()
	req.SubmitForSettlement = true
	return g.authorize(ctx, "purchase", amountCents, pm, req)
}

func (g *Gateway) authorize(ctx context.Context, operation string, amountCents int64, pm *domain.PaymentMethod, opts *ports.TransactionOptions) (result *domain.TransactionResult, err error) {
	if pm == nil {
		return nil, domain.ErrPMRequired
	}
	if amountCents <= 0 {
		return nil, domain.ErrInvalidArguments.WithDetail("amount_cents", amountCents)
	}

	ctx, finish := g.begin(ctx, operation,
		attribute.String("payment_method.id", pm.ID),
		attribute.Int64("amount_cents", amountCents),
	)
	defer func() { finish(result, err) }()

	req := g.adjustOptions(pm, opts)
	mode := g.identifyCard(pm, req)
	observability.RecordAuthorizeIdentifier(mode)

	g.logger.Info("Authorizing payment",
		zap.String("operation", operation),
		zap.String("payment_method_id", pm.ID),
		zap.Int64("amount_cents", amountCents),
		zap.String("identified_by", mode),
		zap.Bool("submit_for_settlement", req.SubmitForSettlement),
	)

	result, err = g.client.Authorize(ctx, amountCents, req)
	if err != nil {
		g.logger.Error("Authorization request failed",
			zap.String("payment_method_id", pm.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	if !result.Success() {
		g.logger.Warn("Authorization declined",
			zap.String("payment_method_id", pm.ID),
			zap.String("message", result.Message()),
		)
		return result, nil
	}

	g.writeBackVaultFields(pm, result)
	if err = g.save(ctx, pm); err != nil {
		// The authorization stands; the caller still needs its reference
		return result, err
	}

	g.logger.Info("Payment authorized",
		zap.String("payment_method_id", pm.ID),
		zap.String("authorization", result.Authorization()),
	)
	return result, nil
}

// identifyCard sets the card identifier on the request and returns how the card was identified.
// A stored token younger than NonceWindow is a nonce. An older one is a vault token, and
// the verification value travels in the nonce field alongside it.
func (g *Gateway) identifyCard(pm *domain.PaymentMethod, req *ports.TransactionOptions) string {
	if !pm.HasVaultToken() {
		// raw card fields, if any, were already folded into the options by the caller
		return IdentifiedByCard
	}

	token := *pm.VaultToken
	if pm.Age(g.now()) < NonceWindow {
		req.PaymentMethodNonce = token
		return IdentifiedByNonce
	}

	req.PaymentMethodToken = token
	req.PaymentMethodNonce = pm.VerificationValue
	return IdentifiedByToken
}

// adjustOptions rewrites the caller's options before an authorize or purchase
func (g *Gateway) adjustOptions(pm *domain.PaymentMethod, opts *ports.TransactionOptions) *ports.TransactionOptions {
	req := opts.Clone()

	if pm.HasCustomerProfile() {
		req.BillingAddress = nil
	}

	if payment := pm.FirstPayment(); payment != nil && payment.Order != nil && payment.Order.BillAddress != nil {
		req.FirstName = payment.Order.BillAddress.FirstName
		req.LastName = payment.Order.BillAddress.LastName
	}

	req.Store = true

	if strings.Contains(strings.ToLower(pm.CardType), "discover") {
		req.ThreeDSecure = &ports.ThreeDSecureOptions{Required: false}
	}

	return req
}

// writeBackVaultFields copies the processor's vault identifiers onto the payment method
func (g *Gateway) writeBackVaultFields(pm *domain.PaymentMethod, result *domain.TransactionResult) {
	token := result.StringParam(domain.ParamCreditCardToken)
	if token == "" {
		if payment := pm.FirstPayment(); payment != nil {
			token = payment.Identifier
		}
	}
	pm.SetVaultToken(token)
	pm.SetCustomerProfileID(result.StringParam(domain.ParamCustomerVaultID))
}
