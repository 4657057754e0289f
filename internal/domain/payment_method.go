package domain

import (
	"time"
)

// PaymentMethod represents a customer's card as the host application stores it.
// The gateway borrows it for one operation and writes back only the vault fields.
type PaymentMethod struct {
	// Identity
	ID string `json:"id"`

	// Vault state (nil until the processor has issued one)
	VaultToken        *string `json:"vault_token"`         // nonce within the first minutes, permanent token afterwards
	CustomerProfileID *string `json:"customer_profile_id"` // processor customer vault id

	// Raw card fields. Number is only present for a fresh, not yet tokenized card.
	Number            string `json:"-"`
	VerificationValue string `json:"-"`
	Month             int    `json:"month"`
	Year              int    `json:"year"`
	Name              string `json:"name"`

	// Display metadata (NEVER store full card numbers)
	LastDigits string `json:"last_digits"`
	CardType   string `json:"card_type"` // canonical brand tag, see CardBrand

	// Payments made with this card, oldest first
	Payments []*Payment `json:"-"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasVaultToken reports whether the processor has issued an identifier for this card.
func (pm *PaymentMethod) HasVaultToken() bool {
	return pm.VaultToken != nil && *pm.VaultToken != ""
}

// HasCustomerProfile reports whether a customer vault record already exists.
func (pm *PaymentMethod) HasCustomerProfile() bool {
	return pm.CustomerProfileID != nil
}

// FirstPayment returns the oldest payment made with this card, or nil.
func (pm *PaymentMethod) FirstPayment() *Payment {
	if len(pm.Payments) == 0 {
		return nil
	}
	return pm.Payments[0]
}

// Age returns how long ago the payment method was created relative to now.
func (pm *PaymentMethod) Age(now time.Time) time.Duration {
	return now.Sub(pm.CreatedAt)
}

// SetVaultToken replaces the vault token. An empty value clears it.
func (pm *PaymentMethod) SetVaultToken(token string) {
	if token == "" {
		pm.VaultToken = nil
		return
	}
	pm.VaultToken = &token
}

// SetCustomerProfileID replaces the customer vault id. An empty value clears it.
func (pm *PaymentMethod) SetCustomerProfileID(id string) {
	if id == "" {
		pm.CustomerProfileID = nil
		return
	}
	pm.CustomerProfileID = &id
}
