package gateway_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/cardvault-gateway/internal/domain"
	"github.com/kevin07696/cardvault-gateway/internal/gateway"
	"github.com/kevin07696/cardvault-gateway/internal/testutil/fixtures"
	"github.com/kevin07696/cardvault-gateway/internal/testutil/mocks"
)

func TestChooseRefund(t *testing.T) {
	txn := fixtures.NewRemoteTransaction("txn_1", domain.TransactionStatusSettled, "10.00")

	tests := []struct {
		name        string
		amountCents int64
		want        gateway.RefundDecision
		wantErr     error
	}{
		{name: "equal", amountCents: 1000, want: gateway.RefundFull},
		{name: "less", amountCents: 999, want: gateway.RefundPartial},
		{name: "one_cent", amountCents: 1, want: gateway.RefundPartial},
		{name: "greater", amountCents: 1001, want: gateway.RefundRejected, wantErr: domain.ErrRefundExceedsAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gateway.ChooseRefund(tt.amountCents, txn)
			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRefundByReference_Full(t *testing.T) {
	gw, client, _ := setupGateway(t)

	client.On("FindTransaction", mock.Anything, "txn_1").
		Return(fixtures.NewRemoteTransaction("txn_1", domain.TransactionStatusSettled, "10.00"), nil)
	client.On("Refund", mock.Anything, "txn_1").Return(fixtures.ApprovedResult("txn_r", nil), nil)

	result, err := gw.RefundByReference(context.Background(), 1000, "txn_1", nil)

	require.NoError(t, err)
	assert.Equal(t, "txn_r", result.Authorization())
	client.AssertNotCalled(t, "PartialRefund", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefundByReference_Partial(t *testing.T) {
	gw, client, _ := setupGateway(t)

	client.On("FindTransaction", mock.Anything, "txn_1").
		Return(fixtures.NewRemoteTransaction("txn_1", domain.TransactionStatusSettled, "10.00"), nil)
	client.On("PartialRefund", mock.Anything, int64(400), "txn_1").Return(fixtures.ApprovedResult("txn_p", nil), nil)

	result, err := gw.RefundByReference(context.Background(), 400, "txn_1", nil)

	require.NoError(t, err)
	assert.Equal(t, "txn_p", result.Authorization())
	client.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
}

func TestRefundByReference_ExceedsAmount(t *testing.T) {
	gw, client, _ := setupGateway(t)

	client.On("FindTransaction", mock.Anything, "txn_1").
		Return(fixtures.NewRemoteTransaction("txn_1", domain.TransactionStatusSettled, "10.00"), nil)

	result, err := gw.RefundByReference(context.Background(), 1500, "txn_1", nil)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrRefundExceedsAmount)
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeInvalidArguments))
	client.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "PartialRefund", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefundByReference_RejectsNonPositiveAmount(t *testing.T) {
	gw, client, _ := setupGateway(t)

	_, err := gw.RefundByReference(context.Background(), 0, "txn_1", nil)

	assert.ErrorIs(t, err, domain.ErrInvalidArguments)
	client.AssertNotCalled(t, "FindTransaction", mock.Anything, mock.Anything)
}

func TestRefundByReferenceLegacy_IgnoresPaymentMethod(t *testing.T) {
	gw, client, _ := setupGateway(t)

	client.On("FindTransaction", mock.Anything, "txn_1").
		Return(fixtures.NewRemoteTransaction("txn_1", domain.TransactionStatusSettled, "25.50"), nil)
	client.On("PartialRefund", mock.Anything, int64(550), "txn_1").Return(fixtures.ApprovedResult("txn_p", nil), nil)

	pm := fixtures.NewPaymentMethod().WithVaultToken("tok").Build()
	result, err := gw.RefundByReferenceLegacy(context.Background(), 550, pm, "txn_1", nil)

	require.NoError(t, err)
	assert.True(t, result.Success())
	client.AssertExpectations(t)
}

func TestRefundByReferenceLegacy_MatchesRefundByReference(t *testing.T) {
	tests := []struct {
		name        string
		amountCents int64
		setup       func(client *mocks.MockProcessorClient)
		wantErr     error
	}{
		{
			name:        "full",
			amountCents: 5000,
			setup: func(client *mocks.MockProcessorClient) {
				client.On("Refund", mock.Anything, "txn123").Return(fixtures.ApprovedResult("txn_r", nil), nil).Once()
			},
		},
		{
			name:        "partial",
			amountCents: 2000,
			setup: func(client *mocks.MockProcessorClient) {
				client.On("PartialRefund", mock.Anything, int64(2000), "txn123").Return(fixtures.ApprovedResult("txn_p", nil), nil).Once()
			},
		},
		{
			name:        "exceeds",
			amountCents: 9000,
			setup:       func(*mocks.MockProcessorClient) {},
			wantErr:     domain.ErrRefundExceedsAmount,
		},
	}

	pm := fixtures.NewPaymentMethod().WithVaultToken("tok").Build()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := func(refund func(gw *gateway.Gateway) (*domain.TransactionResult, error)) (*domain.TransactionResult, []string, error) {
				gw, client, _ := setupGateway(t)
				client.On("FindTransaction", mock.Anything, "txn123").
					Return(fixtures.NewRemoteTransaction("txn123", domain.TransactionStatusSettled, "50.00"), nil).Once()
				tt.setup(client)

				result, err := refund(gw)
				client.AssertExpectations(t)
				return result, methodNames(client), err
			}

			current, currentCalls, currentErr := run(func(gw *gateway.Gateway) (*domain.TransactionResult, error) {
				return gw.RefundByReference(context.Background(), tt.amountCents, "txn123", nil)
			})
			legacy, legacyCalls, legacyErr := run(func(gw *gateway.Gateway) (*domain.TransactionResult, error) {
				return gw.RefundByReferenceLegacy(context.Background(), tt.amountCents, pm, "txn123", nil)
			})

			if tt.wantErr != nil {
				require.ErrorIs(t, currentErr, tt.wantErr)
				require.ErrorIs(t, legacyErr, tt.wantErr)
				assert.Equal(t, currentErr.Error(), legacyErr.Error())
			} else {
				require.NoError(t, currentErr)
				require.NoError(t, legacyErr)
				assert.True(t, legacy.Success())
			}
			assert.Equal(t, current, legacy)
			assert.Equal(t, currentCalls, legacyCalls)
		})
	}
}

func methodNames(client *mocks.MockProcessorClient) []string {
	names := make([]string, 0, len(client.Calls))
	for _, call := range client.Calls {
		names = append(names, call.Method)
	}
	return names
}

func TestCreditWithStoredPaymentMethod(t *testing.T) {
	gw, client, _ := setupGateway(t)
	pm := fixtures.NewPaymentMethod().WithVaultToken("tok").Tokenized().Build()

	client.On("Credit", mock.Anything, int64(700), pm).Return(fixtures.DeclinedResult("Unreferenced credits are not enabled"), nil)

	result, err := gw.CreditWithStoredPaymentMethod(context.Background(), 700, pm)

	require.NoError(t, err)
	assert.False(t, result.Success())

	_, err = gw.CreditWithStoredPaymentMethod(context.Background(), 700, nil)
	assert.ErrorIs(t, err, domain.ErrPMRequired)
}
