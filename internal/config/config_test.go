package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/cardvault-gateway/internal/domain"
	"github.com/kevin07696/cardvault-gateway/internal/domain/ports"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CARDVAULT_PROCESSOR__MERCHANT_ID", "m1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sandbox", cfg.Processor.Environment)
	assert.Equal(t, "m1", cfg.Processor.MerchantID)
	assert.Equal(t, 60*time.Second, cfg.Processor.Timeout)
	assert.Equal(t, float64(25), cfg.Processor.RequestsPerSecond)
	assert.Equal(t, 2, cfg.Processor.MaxReadRetries)
	assert.Equal(t, "none", cfg.Secrets.Backend)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, ":9090", cfg.Metrics.Address)
	assert.False(t, cfg.Database.Enabled())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CARDVAULT_PROCESSOR__ENVIRONMENT", "production")
	t.Setenv("CARDVAULT_PROCESSOR__TIMEOUT", "15s")
	t.Setenv("CARDVAULT_PROCESSOR__MERCHANT_ACCOUNT_ID", "acct_usd")
	t.Setenv("CARDVAULT_DATABASE__URL", "postgres://u:p@localhost:5432/db")
	t.Setenv("CARDVAULT_DATABASE__AUTO_MIGRATE", "true")
	t.Setenv("CARDVAULT_LOGGER__LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Processor.Environment)
	assert.Equal(t, 15*time.Second, cfg.Processor.Timeout)
	assert.Equal(t, "acct_usd", cfg.Processor.MerchantAccountID)
	assert.True(t, cfg.Database.Enabled())
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CARDVAULT_PROCESSOR__PUBLIC_KEY=from_file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CARDVAULT_PROCESSOR__PUBLIC_KEY") })

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from_file", cfg.Processor.PublicKey)
}

func TestLoad_ValidationFailure(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown_environment", key: "CARDVAULT_PROCESSOR__ENVIRONMENT", value: "staging"},
		{name: "bad_backend", key: "CARDVAULT_SECRETS__BACKEND", value: "gcp"},
		{name: "bad_level", key: "CARDVAULT_LOGGER__LEVEL", value: "verbose"},
		{name: "bad_base_url", key: "CARDVAULT_PROCESSOR__BASE_URL", value: "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.True(t, domain.IsDomainError(err, domain.ErrorCodeConfigInvalid), "got %v", err)
		})
	}
}

type stubSecretStore struct {
	secret *ports.Secret
	err    error
	path   string
}

func (s *stubSecretStore) GetSecret(_ context.Context, path string) (*ports.Secret, error) {
	s.path = path
	return s.secret, s.err
}

func TestResolveCredentials(t *testing.T) {
	cfg := &Config{Processor: ProcessorConfig{
		MerchantID:        "env_merchant",
		CredentialsSecret: "cardvault/processor",
	}}
	store := &stubSecretStore{secret: &ports.Secret{
		Value: `{"public_key":"pub","private_key":"priv","merchant_account_id":"acct"}`,
	}}

	require.NoError(t, cfg.ResolveCredentials(context.Background(), store))

	assert.Equal(t, "cardvault/processor", store.path)
	assert.Equal(t, "env_merchant", cfg.Processor.MerchantID)
	assert.Equal(t, "pub", cfg.Processor.PublicKey)
	assert.Equal(t, "priv", cfg.Processor.PrivateKey)
	assert.Equal(t, "acct", cfg.Processor.MerchantAccountID)
}

func TestResolveCredentials_Failures(t *testing.T) {
	tests := []struct {
		name  string
		cfg   ProcessorConfig
		store ports.SecretStore
	}{
		{name: "missing_inline_credentials", cfg: ProcessorConfig{MerchantID: "m1"}},
		{name: "secret_without_backend", cfg: ProcessorConfig{CredentialsSecret: "x"}},
		{name: "secret_read_error", cfg: ProcessorConfig{CredentialsSecret: "x"}, store: &stubSecretStore{err: errors.New("denied")}},
		{name: "secret_not_json", cfg: ProcessorConfig{CredentialsSecret: "x"}, store: &stubSecretStore{secret: &ports.Secret{Value: "plain"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Processor: tt.cfg}

			err := cfg.ResolveCredentials(context.Background(), tt.store)
			assert.ErrorIs(t, err, domain.ErrConfigInvalid)
		})
	}
}
