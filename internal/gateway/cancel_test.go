package gateway_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/cardvault-gateway/internal/domain"
	"github.com/kevin07696/cardvault-gateway/internal/gateway"
	"github.com/kevin07696/cardvault-gateway/internal/testutil/fixtures"
)

func TestChooseCancelStrategy(t *testing.T) {
	statuses := []domain.TransactionStatus{
		domain.TransactionStatusAuthorizing,
		domain.TransactionStatusAuthorized,
		domain.TransactionStatusAuthorizationExpired,
		domain.TransactionStatusSubmittedForSettlement,
		domain.TransactionStatusSettling,
		domain.TransactionStatusSettlementPending,
		domain.TransactionStatusSettlementDeclined,
		domain.TransactionStatusSettled,
		domain.TransactionStatusVoided,
		domain.TransactionStatusProcessorDeclined,
		domain.TransactionStatusGatewayRejected,
		domain.TransactionStatusFailed,
		domain.TransactionStatus("unknown"),
	}

	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			want := domain.CancelRefund
			if status == domain.TransactionStatusSubmittedForSettlement {
				want = domain.CancelVoid
			}
			assert.Equal(t, want, gateway.ChooseCancelStrategy(status))
		})
	}
}

func TestCancel_VoidsPendingSettlement(t *testing.T) {
	gw, client, _ := setupGateway(t)

	client.On("FindTransaction", mock.Anything, "txn_1").
		Return(fixtures.NewRemoteTransaction("txn_1", domain.TransactionStatusSubmittedForSettlement, "10.00"), nil)
	client.On("Void", mock.Anything, "txn_1").Return(fixtures.ApprovedResult("txn_1", nil), nil)

	result, err := gw.Cancel(context.Background(), "txn_1")

	require.NoError(t, err)
	assert.True(t, result.Success())
	client.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
}

func TestCancel_RefundsSettled(t *testing.T) {
	gw, client, _ := setupGateway(t)

	client.On("FindTransaction", mock.Anything, "txn_1").
		Return(fixtures.NewRemoteTransaction("txn_1", domain.TransactionStatusSettled, "10.00"), nil)
	client.On("Refund", mock.Anything, "txn_1").Return(fixtures.ApprovedResult("txn_r", nil), nil)

	result, err := gw.Cancel(context.Background(), "txn_1")

	require.NoError(t, err)
	assert.Equal(t, "txn_r", result.Authorization())
	client.AssertNotCalled(t, "Void", mock.Anything, mock.Anything)
}

func TestCancel_LookupFailure(t *testing.T) {
	gw, client, _ := setupGateway(t)

	client.On("FindTransaction", mock.Anything, "missing").
		Return(nil, domain.ErrTxnNotFound)

	_, err := gw.Cancel(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrTxnNotFound)
	client.AssertNotCalled(t, "Void", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
}

func TestCapture_IgnoresOptions(t *testing.T) {
	gw, client, _ := setupGateway(t)

	client.On("Capture", mock.Anything, int64(1000), "txn_1").
		Return(fixtures.ApprovedResult("txn_1", nil), nil)

	result, err := gw.Capture(context.Background(), 1000, "txn_1", nil)

	require.NoError(t, err)
	assert.True(t, result.Success())
	client.AssertExpectations(t)
}

func TestVoid(t *testing.T) {
	gw, client, _ := setupGateway(t)

	client.On("Void", mock.Anything, "txn_1").Return(nil, errors.New("timeout"))

	_, err := gw.Void(context.Background(), "txn_1")
	assert.EqualError(t, err, "void txn_1: timeout")

	_, err = gw.Void(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidArguments)
}
