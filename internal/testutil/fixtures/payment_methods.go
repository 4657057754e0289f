package fixtures

import (
	"time"

	"github.com/google/uuid"

	"github.com/kevin07696/cardvault-gateway/internal/domain"
)

// PaymentMethodBuilder provides fluent API for building test payment methods.
type PaymentMethodBuilder struct {
	paymentMethod *domain.PaymentMethod
}

// NewPaymentMethod creates a new payment method builder with sensible defaults.
// The card has no vault token yet and carries a raw test card number.
func NewPaymentMethod() *PaymentMethodBuilder {
	now := time.Now()
	return &PaymentMethodBuilder{
		paymentMethod: &domain.PaymentMethod{
			ID:                uuid.New().String(),
			Number:            "4111111111111111",
			VerificationValue: "123",
			Month:             12,
			Year:              2030,
			Name:              "Jane Doe",
			LastDigits:        "1111",
			CardType:          "visa",
			CreatedAt:         now,
			UpdatedAt:         now,
		},
	}
}

func (b *PaymentMethodBuilder) WithID(id string) *PaymentMethodBuilder {
	b.paymentMethod.ID = id
	return b
}

func (b *PaymentMethodBuilder) WithVaultToken(token string) *PaymentMethodBuilder {
	b.paymentMethod.VaultToken = StringPtr(token)
	return b
}

func (b *PaymentMethodBuilder) WithCustomerProfileID(id string) *PaymentMethodBuilder {
	b.paymentMethod.CustomerProfileID = StringPtr(id)
	return b
}

func (b *PaymentMethodBuilder) WithNumber(number string) *PaymentMethodBuilder {
	b.paymentMethod.Number = number
	return b
}

func (b *PaymentMethodBuilder) WithVerificationValue(cvv string) *PaymentMethodBuilder {
	b.paymentMethod.VerificationValue = cvv
	return b
}

func (b *PaymentMethodBuilder) WithCardType(cardType string) *PaymentMethodBuilder {
	b.paymentMethod.CardType = cardType
	return b
}

func (b *PaymentMethodBuilder) WithCreatedAt(createdAt time.Time) *PaymentMethodBuilder {
	b.paymentMethod.CreatedAt = createdAt
	return b
}

// WithPayment attaches a payment; the payment's source is pointed back at this card
func (b *PaymentMethodBuilder) WithPayment(payment *domain.Payment) *PaymentMethodBuilder {
	payment.Source = b.paymentMethod
	b.paymentMethod.Payments = append(b.paymentMethod.Payments, payment)
	return b
}

// Tokenized clears the raw card number, as for a card that only exists in the vault
func (b *PaymentMethodBuilder) Tokenized() *PaymentMethodBuilder {
	b.paymentMethod.Number = ""
	return b
}

func (b *PaymentMethodBuilder) Build() *domain.PaymentMethod {
	return b.paymentMethod
}
