package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kevin07696/cardvault-gateway/internal/domain"
	"github.com/kevin07696/cardvault-gateway/internal/domain/ports"
)

// MockPaymentMethodStore mocks ports.PaymentMethodStore
type MockPaymentMethodStore struct {
	mock.Mock
}

var _ ports.PaymentMethodStore = (*MockPaymentMethodStore)(nil)

func (m *MockPaymentMethodStore) SaveVaultFields(ctx context.Context, pm *domain.PaymentMethod) error {
	args := m.Called(ctx, pm)
	return args.Error(0)
}
