package secrets

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/kevin07696/cardvault-gateway/internal/domain/ports"
)

// VaultConfig contains configuration for the HashiCorp Vault store
type VaultConfig struct {
	// Vault server address (e.g., "https://vault.example.com:8200")
	Address string

	// Authentication method: "token" or "approle"
	AuthMethod string
	Token      string
	RoleID     string
	SecretID   string

	// Vault namespace (Vault Enterprise)
	Namespace string

	// KV secrets engine mount path and version ("v1" or "v2")
	MountPath string
	KVVersion string

	CacheTTL    time.Duration
	EnableCache bool

	TLSSkipVerify bool
}

// DefaultVaultConfig returns default configuration for Vault
func DefaultVaultConfig(address string) *VaultConfig {
	return &VaultConfig{
		Address:     address,
		AuthMethod:  "token",
		MountPath:   "secret",
		KVVersion:   "v2",
		CacheTTL:    5 * time.Minute,
		EnableCache: true,
	}
}

// VaultSecretStore reads secrets from a Vault KV engine
type VaultSecretStore struct {
	client *vault.Client
	config *VaultConfig
	logger *zap.Logger
	cache  *secretCache
}

var _ ports.SecretStore = (*VaultSecretStore)(nil)

// NewVaultSecretStore creates and authenticates a Vault client
func NewVaultSecretStore(ctx context.Context, cfg *VaultConfig, logger *zap.Logger) (*VaultSecretStore, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	if cfg.TLSSkipVerify {
		if err := vaultConfig.ConfigureTLS(&vault.TLSConfig{Insecure: true}); err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}

	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	if err := authenticateVault(ctx, client, cfg); err != nil {
		return nil, fmt.Errorf("failed to authenticate with Vault: %w", err)
	}

	logger.Info("Vault secret store initialized",
		zap.String("address", cfg.Address),
		zap.String("auth_method", cfg.AuthMethod),
		zap.String("mount_path", cfg.MountPath),
		zap.String("kv_version", cfg.KVVersion),
	)

	return &VaultSecretStore{
		client: client,
		config: cfg,
		logger: logger,
		cache:  newSecretCache(cfg.EnableCache, cfg.CacheTTL),
	}, nil
}

func authenticateVault(ctx context.Context, client *vault.Client, cfg *VaultConfig) error {
	switch cfg.AuthMethod {
	case "token":
		if cfg.Token == "" {
			return fmt.Errorf("token is required for token auth")
		}
		client.SetToken(cfg.Token)
		return nil

	case "approle":
		if cfg.RoleID == "" || cfg.SecretID == "" {
			return fmt.Errorf("role_id and secret_id are required for AppRole auth")
		}
		resp, err := client.Logical().WriteWithContext(ctx, "auth/approle/login", map[string]interface{}{
			"role_id":   cfg.RoleID,
			"secret_id": cfg.SecretID,
		})
		if err != nil {
			return fmt.Errorf("AppRole login failed: %w", err)
		}
		if resp == nil || resp.Auth == nil {
			return fmt.Errorf("AppRole login returned no auth info")
		}
		client.SetToken(resp.Auth.ClientToken)
		return nil

	default:
		return fmt.Errorf("unsupported auth method: %s", cfg.AuthMethod)
	}
}

// GetSecret reads a KV secret. When the secret has no "value" field the whole
// data map is returned as a JSON document.
func (s *VaultSecretStore) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	if cached := s.cache.get(path); cached != nil {
		s.logger.Debug("Secret retrieved from cache", zap.String("path", path))
		return cached, nil
	}

	fullPath := fmt.Sprintf("%s/%s", s.config.MountPath, path)
	if s.config.KVVersion == "v2" {
		fullPath = fmt.Sprintf("%s/data/%s", s.config.MountPath, path)
	}

	startTime := time.Now()
	raw, err := s.client.Logical().ReadWithContext(ctx, fullPath)
	if err != nil {
		s.logger.Error("Failed to retrieve secret from Vault",
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to read secret from Vault: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("secret not found: %s", path)
	}

	data := raw.Data
	secret := &ports.Secret{Version: "1", Metadata: map[string]string{}}

	if s.config.KVVersion == "v2" {
		nested, ok := raw.Data["data"].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid secret format from Vault")
		}
		data = nested

		if metadata, ok := raw.Data["metadata"].(map[string]interface{}); ok {
			if v, ok := metadata["version"]; ok && v != nil {
				secret.Version = fmt.Sprint(v)
			}
			if ct, ok := metadata["created_time"].(string); ok {
				secret.CreatedAt = ct
			}
		}
	}

	for k, v := range data {
		if str, ok := v.(string); ok && k != "value" {
			secret.Metadata[k] = str
		}
	}

	if value, ok := data["value"].(string); ok {
		secret.Value = value
	} else {
		doc, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode secret %s: %w", path, err)
		}
		secret.Value = string(doc)
	}

	if secret.Value == "" {
		return nil, fmt.Errorf("secret value is empty: %s", path)
	}

	s.logger.Info("Secret retrieved from Vault",
		zap.String("path", path),
		zap.Duration("elapsed", time.Since(startTime)),
	)

	s.cache.set(path, secret)
	return secret, nil
}
