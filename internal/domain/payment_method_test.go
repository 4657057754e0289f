package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaymentMethod_VaultState(t *testing.T) {
	pm := &PaymentMethod{}
	assert.False(t, pm.HasVaultToken())
	assert.False(t, pm.HasCustomerProfile())

	pm.SetVaultToken("tok_abc")
	pm.SetCustomerProfileID("cust_1")
	assert.True(t, pm.HasVaultToken())
	assert.True(t, pm.HasCustomerProfile())
	assert.Equal(t, "tok_abc", *pm.VaultToken)

	pm.SetVaultToken("")
	assert.False(t, pm.HasVaultToken())
	assert.Nil(t, pm.VaultToken)
}

func TestPaymentMethod_EmptyTokenIsNotAVaultToken(t *testing.T) {
	empty := ""
	pm := &PaymentMethod{VaultToken: &empty}

	assert.False(t, pm.HasVaultToken())
}

func TestPaymentMethod_FirstPayment(t *testing.T) {
	pm := &PaymentMethod{}
	assert.Nil(t, pm.FirstPayment())

	first := &Payment{Identifier: "P1"}
	pm.Payments = []*Payment{first, {Identifier: "P2"}}
	assert.Same(t, first, pm.FirstPayment())
}

func TestPaymentMethod_Age(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	pm := &PaymentMethod{CreatedAt: now.Add(-90 * time.Second)}

	assert.Equal(t, 90*time.Second, pm.Age(now))
}

func TestAddress_RegionAndCountry(t *testing.T) {
	withState := &Address{State: &State{Name: "New York", Abbr: "NY"}, StateName: "ignored", Country: &Country{ISO3: "USA"}}
	assert.Equal(t, "New York", withState.RegionName())
	assert.Equal(t, "USA", withState.CountryISO3())

	freeText := &Address{StateName: "Bavaria"}
	assert.Equal(t, "Bavaria", freeText.RegionName())
	assert.Equal(t, "", freeText.CountryISO3())
}
