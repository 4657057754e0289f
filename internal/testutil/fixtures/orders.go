package fixtures

import (
	"github.com/kevin07696/cardvault-gateway/internal/domain"
)

// NewAddress returns a US billing address
func NewAddress() *domain.Address {
	return &domain.Address{
		FirstName: "Jane",
		LastName:  "Doe",
		Address1:  "1 Main St",
		Address2:  "Suite 4",
		Company:   "Acme",
		City:      "Springfield",
		State:     &domain.State{Name: "Illinois", Abbr: "IL"},
		Country:   &domain.Country{ISO: "US", ISO3: "USA"},
		Zipcode:   "62701",
	}
}

// NewOrder returns an order billed to NewAddress
func NewOrder() *domain.Order {
	return &domain.Order{
		Number:      "R123456789",
		Email:       "jane@example.com",
		BillAddress: NewAddress(),
	}
}

// NewPayment returns a payment for NewOrder with the given identifier
func NewPayment(identifier string) *domain.Payment {
	return &domain.Payment{
		Identifier: identifier,
		Order:      NewOrder(),
	}
}
