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

const vaultFlagOn = "true"

// Vault profile outcomes
const (
	ProfileCreated = "created"
	ProfileSkipped = "skipped"
	ProfileFailed  = "failed"
)

// CreateProfile stores the payment's card in the processor vault under a new customer profile.
// It does nothing when the card already has a profile or carries no card number.
func (g *Gateway) CreateProfile(ctx context.Context, payment *domain.Payment) (err error) {
	if payment == nil || payment.Source == nil {
		return domain.ErrPMRequired
	}
	pm := payment.Source

	if pm.HasCustomerProfile() {
		observability.RecordVaultProfile(ProfileSkipped)
		return nil
	}

	opts := StoreOptionsForPayment(payment)
	if pm.Number == "" {
		observability.RecordVaultProfile(ProfileSkipped)
		return nil
	}

	ctx, finish := g.begin(ctx, "create_profile", attribute.String("payment_method.id", pm.ID))
	var result *domain.TransactionResult
	defer func() { finish(result, err) }()

	result, err = g.client.Store(ctx, pm, opts)
	if err != nil {
		observability.RecordVaultProfile(ProfileFailed)
		return fmt.Errorf("create profile for payment method %s: %w", pm.ID, err)
	}

	if !result.Success() {
		observability.RecordVaultProfile(ProfileFailed)
		payment.RecordGatewayError(result.Message())
		g.logger.Warn("Customer profile rejected",
			zap.String("payment_method_id", pm.ID),
			zap.String("message", result.Message()),
		)
		return domain.NewDomainError(domain.ErrorCodeGatewayError, result.Message()).
			WithDetail("payment_method_id", pm.ID)
	}

	pm.SetCustomerProfileID(result.StringParam(domain.ParamCustomerVaultID))
	if card, ok := result.StoredCard(); ok {
		updateCardDetails(pm, card)
	}

	if err = g.save(ctx, pm); err != nil {
		return err
	}

	observability.RecordVaultProfile(ProfileCreated)
	g.logger.Info("Customer profile created",
		zap.String("payment_method_id", pm.ID),
		zap.String("last_digits", pm.LastDigits),
		zap.String("card_type", pm.CardType),
	)
	return nil
}

// updateCardDetails copies the vaulted card's details onto the payment method.
// An unrecognized brand leaves CardType as it was.
func updateCardDetails(pm *domain.PaymentMethod, card map[string]interface{}) {
	if last4, ok := card[domain.ParamCardLastFour].(string); ok && last4 != "" {
		pm.LastDigits = last4
	}

	token, _ := card[domain.ParamCardToken].(string)
	pm.SetVaultToken(token)

	if brand, ok := card[domain.ParamCardType].(string); ok && brand != "" {
		if tag, mapped := domain.CardBrand(brand); mapped {
			pm.CardType = tag
		}
	}
}

// StoreOptionsForPayment builds the vault request from the payment's order
func StoreOptionsForPayment(payment *domain.Payment) *ports.StoreOptions {
	opts := &ports.StoreOptions{
		Options: ports.StoreFlags{
			VerifyCard:   vaultFlagOn,
			StoreInVault: vaultFlagOn,
		},
		VerifyCard: vaultFlagOn,
		Store:      vaultFlagOn,
	}

	order := payment.Order
	if order == nil {
		return opts
	}
	opts.Email = order.Email

	addr := order.BillAddress
	if addr == nil {
		return opts
	}

	opts.FirstName = addr.FirstName
	opts.LastName = addr.LastName
	opts.BillingAddress = &ports.StoreAddress{
		Address1:          addr.Address1,
		Address2:          addr.Address2,
		Company:           addr.Company,
		City:              addr.City,
		State:             addr.RegionName(),
		CountryCodeAlpha3: addr.CountryISO3(),
		Zip:               addr.Zipcode,
	}
	opts.Customer = &ports.StoreCustomer{
		FirstName: addr.FirstName,
		LastName:  addr.LastName,
		Email:     order.Email,
	}
	return opts
}
