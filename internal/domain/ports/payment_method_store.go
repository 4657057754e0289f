package ports

import (
	"context"

	"github.com/kevin07696/cardvault-gateway/internal/domain"
)

// PaymentMethodStore persists the vault fields the gateway writes back onto a payment method
type PaymentMethodStore interface {
	// SaveVaultFields writes VaultToken, CustomerProfileID, LastDigits and CardType
	SaveVaultFields(ctx context.Context, pm *domain.PaymentMethod) error
}

// PaymentMethodRepository is the full persistence contract of the host's payment methods
type PaymentMethodRepository interface {
	PaymentMethodStore

	// GetByID loads a payment method without its payments
	GetByID(ctx context.Context, id string) (*domain.PaymentMethod, error)
}
