package secrets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kevin07696/cardvault-gateway/internal/domain/ports"
)

func TestLocalSecretStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "processor"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "processor", "plain"), []byte(`{"merchant_id":"m1"}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "processor", "wrapped"),
		[]byte(`{"value":"s3cret","tags":{"env":"dev"},"created_at":"2026-01-01T00:00:00Z"}`), 0o600))

	store := NewLocalSecretStore(dir, zap.NewNop())

	plain, err := store.GetSecret(context.Background(), "processor/plain")
	require.NoError(t, err)
	assert.Equal(t, `{"merchant_id":"m1"}`, plain.Value)

	wrapped, err := store.GetSecret(context.Background(), "processor/wrapped")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", wrapped.Value)
	assert.Equal(t, "dev", wrapped.Metadata["env"])

	_, err = store.GetSecret(context.Background(), "../../etc/passwd")
	assert.Error(t, err)

	_, err = store.GetSecret(context.Background(), "missing")
	assert.EqualError(t, err, "secret not found: missing")
}

type mockSecretsManager struct {
	mock.Mock
}

func (m *mockSecretsManager) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	args := m.Called(ctx, aws.ToString(params.SecretId))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsmanager.GetSecretValueOutput), args.Error(1)
}

func TestAWSSecretStore_CachesSecrets(t *testing.T) {
	client := new(mockSecretsManager)
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	client.On("GetSecretValue", mock.Anything, "cardvault/processor").Return(&secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"public_key":"pub"}`),
		VersionId:    aws.String("v-123"),
		ARN:          aws.String("arn:aws:secretsmanager:us-east-1:1:secret:cardvault/processor"),
		CreatedDate:  &created,
	}, nil).Once()

	store := newAWSSecretStore(client, DefaultAWSConfig("us-east-1"), zap.NewNop())

	for i := 0; i < 3; i++ {
		secret, err := store.GetSecret(context.Background(), "cardvault/processor")
		require.NoError(t, err)
		assert.Equal(t, `{"public_key":"pub"}`, secret.Value)
		assert.Equal(t, "v-123", secret.Version)
		assert.Equal(t, "2026-02-01T00:00:00Z", secret.CreatedAt)
	}
	client.AssertExpectations(t)
}

func TestAWSSecretStore_Error(t *testing.T) {
	client := new(mockSecretsManager)
	client.On("GetSecretValue", mock.Anything, "missing").Return(nil, errors.New("ResourceNotFoundException"))

	store := newAWSSecretStore(client, &AWSConfig{Region: "us-east-1"}, zap.NewNop())

	_, err := store.GetSecret(context.Background(), "missing")
	assert.EqualError(t, err, "failed to get secret missing: ResourceNotFoundException")
}

func TestSecretCache_Expires(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := newSecretCache(true, time.Minute)
	cache.now = func() time.Time { return now }

	cache.set("k", &ports.Secret{Value: "v"})
	assert.NotNil(t, cache.get("k"))

	now = now.Add(2 * time.Minute)
	assert.Nil(t, cache.get("k"))

	disabled := newSecretCache(false, time.Minute)
	disabled.set("k", &ports.Secret{Value: "v"})
	assert.Nil(t, disabled.get("k"))
}

func TestVaultSecretStore_KVv2(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/secret/data/cardvault/processor", r.URL.Path)
		assert.Equal(t, "root-token", r.Header.Get("X-Vault-Token"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"data": map[string]interface{}{
					"merchant_id": "m1",
					"public_key":  "pub",
					"private_key": "priv",
				},
				"metadata": map[string]interface{}{
					"version":      3,
					"created_time": "2026-01-01T00:00:00Z",
				},
			},
		})
	}))
	defer server.Close()

	cfg := DefaultVaultConfig(server.URL)
	cfg.Token = "root-token"

	store, err := NewVaultSecretStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	secret, err := store.GetSecret(context.Background(), "cardvault/processor")
	require.NoError(t, err)

	var doc map[string]string
	require.NoError(t, json.Unmarshal([]byte(secret.Value), &doc))
	assert.Equal(t, map[string]string{"merchant_id": "m1", "public_key": "pub", "private_key": "priv"}, doc)
	assert.Equal(t, "3", secret.Version)
	assert.Equal(t, "m1", secret.Metadata["merchant_id"])
}

func TestVaultSecretStore_AuthValidation(t *testing.T) {
	_, err := NewVaultSecretStore(context.Background(), DefaultVaultConfig("http://127.0.0.1:1"), zap.NewNop())
	assert.ErrorContains(t, err, "token is required")

	cfg := DefaultVaultConfig("http://127.0.0.1:1")
	cfg.AuthMethod = "kubernetes"
	_, err = NewVaultSecretStore(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported auth method")
}
