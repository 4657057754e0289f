package gateway_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kevin07696/cardvault-gateway/internal/gateway"
	"github.com/kevin07696/cardvault-gateway/internal/testutil/mocks"
	"github.com/kevin07696/cardvault-gateway/pkg/timeutil"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func testConfig() gateway.Config {
	return gateway.Config{
		Environment: gateway.EnvironmentSandbox,
		MerchantID:  "merchant_1",
		PublicKey:   "public_key",
		PrivateKey:  "private_key",
	}
}

func setupGateway(t *testing.T, opts ...gateway.Option) (*gateway.Gateway, *mocks.MockProcessorClient, *mocks.MockPaymentMethodStore) {
	t.Helper()

	client := new(mocks.MockProcessorClient)
	store := new(mocks.MockPaymentMethodStore)

	all := append([]gateway.Option{
		gateway.WithClock(timeutil.Fixed(fixedNow)),
		gateway.WithPaymentMethodStore(store),
	}, opts...)

	gw, err := gateway.New(testConfig(), client, zap.NewNop(), all...)
	require.NoError(t, err)

	return gw, client, store
}
