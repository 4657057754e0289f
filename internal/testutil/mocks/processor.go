// Package mocks provides shared mock implementations for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kevin07696/cardvault-gateway/internal/domain"
	"github.com/kevin07696/cardvault-gateway/internal/domain/ports"
)

// MockProcessorClient mocks ports.ProcessorClient
type MockProcessorClient struct {
	mock.Mock
}

var _ ports.ProcessorClient = (*MockProcessorClient)(nil)

func result(args mock.Arguments) (*domain.TransactionResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionResult), args.Error(1)
}

func (m *MockProcessorClient) Authorize(ctx context.Context, amountCents int64, opts *ports.TransactionOptions) (*domain.TransactionResult, error) {
	return result(m.Called(ctx, amountCents, opts))
}

func (m *MockProcessorClient) Capture(ctx context.Context, amountCents int64, referenceCode string) (*domain.TransactionResult, error) {
	return result(m.Called(ctx, amountCents, referenceCode))
}

func (m *MockProcessorClient) Refund(ctx context.Context, referenceCode string) (*domain.TransactionResult, error) {
	return result(m.Called(ctx, referenceCode))
}

func (m *MockProcessorClient) PartialRefund(ctx context.Context, amountCents int64, referenceCode string) (*domain.TransactionResult, error) {
	return result(m.Called(ctx, amountCents, referenceCode))
}

func (m *MockProcessorClient) Void(ctx context.Context, referenceCode string) (*domain.TransactionResult, error) {
	return result(m.Called(ctx, referenceCode))
}

func (m *MockProcessorClient) Store(ctx context.Context, pm *domain.PaymentMethod, opts *ports.StoreOptions) (*domain.TransactionResult, error) {
	return result(m.Called(ctx, pm, opts))
}

func (m *MockProcessorClient) Credit(ctx context.Context, amountCents int64, pm *domain.PaymentMethod) (*domain.TransactionResult, error) {
	return result(m.Called(ctx, amountCents, pm))
}

func (m *MockProcessorClient) FindTransaction(ctx context.Context, referenceCode string) (*domain.RemoteTransaction, error) {
	args := m.Called(ctx, referenceCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RemoteTransaction), args.Error(1)
}

func (m *MockProcessorClient) GenerateClientToken(ctx context.Context, opts *ports.ClientTokenOptions) (string, error) {
	args := m.Called(ctx, opts)
	return args.String(0), args.Error(1)
}

func (m *MockProcessorClient) GenerateNonce(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}
