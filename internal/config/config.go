package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"

	"github.com/kevin07696/cardvault-gateway/internal/domain"
	"github.com/kevin07696/cardvault-gateway/internal/domain/ports"
)

// EnvPrefix is the prefix of every configuration variable.
// Nested keys use a double underscore: CARDVAULT_PROCESSOR__MERCHANT_ID.
const EnvPrefix = "CARDVAULT_"

// Config holds all application configuration
type Config struct {
	Processor ProcessorConfig `koanf:"processor"`
	Database  DatabaseConfig  `koanf:"database"`
	Secrets   SecretsConfig   `koanf:"secrets"`
	Logger    LoggerConfig    `koanf:"logger"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// ProcessorConfig holds the card processor credentials and client tuning
type ProcessorConfig struct {
	Environment             string `koanf:"environment" validate:"required,oneof=sandbox production"`
	BaseURL                 string `koanf:"base_url" validate:"omitempty,url"`
	MerchantID              string `koanf:"merchant_id"`
	MerchantAccountID       string `koanf:"merchant_account_id"`
	PublicKey               string `koanf:"public_key"`
	PrivateKey              string `koanf:"private_key"`
	ClientSideEncryptionKey string `koanf:"client_side_encryption_key"`

	// CredentialsSecret names a secret holding the credentials as a JSON document
	CredentialsSecret string `koanf:"credentials_secret"`

	Timeout           time.Duration `koanf:"timeout" validate:"required"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gt=0"`
	Burst             int           `koanf:"burst" validate:"gt=0"`
	MaxReadRetries    int           `koanf:"max_read_retries" validate:"gte=0,lte=5"`
}

// DatabaseConfig holds PostgreSQL configuration. An empty URL disables persistence.
type DatabaseConfig struct {
	URL          string        `koanf:"url"`
	MaxConns     int32         `koanf:"max_conns" validate:"gte=0"`
	MinConns     int32         `koanf:"min_conns" validate:"gte=0"`
	QueryTimeout time.Duration `koanf:"query_timeout"`
	AutoMigrate  bool          `koanf:"auto_migrate"`
}

// Enabled reports whether a database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// SecretsConfig selects the backend used for CredentialsSecret
type SecretsConfig struct {
	Backend  string        `koanf:"backend" validate:"oneof=none local aws vault"`
	CacheTTL time.Duration `koanf:"cache_ttl"`

	LocalPath string `koanf:"local_path"`

	AWSRegion   string `koanf:"aws_region"`
	AWSProfile  string `koanf:"aws_profile"`
	AWSEndpoint string `koanf:"aws_endpoint"`

	VaultAddress    string `koanf:"vault_address"`
	VaultAuthMethod string `koanf:"vault_auth_method" validate:"omitempty,oneof=token approle"`
	VaultToken      string `koanf:"vault_token"`
	VaultRoleID     string `koanf:"vault_role_id"`
	VaultSecretID   string `koanf:"vault_secret_id"`
	VaultMountPath  string `koanf:"vault_mount_path"`
	VaultNamespace  string `koanf:"vault_namespace"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string `koanf:"level" validate:"oneof=debug info warn error"`
	Development bool   `koanf:"development"`
	File        string `koanf:"file"`
	MaxSizeMB   int    `koanf:"max_size_mb"`
	MaxAgeDays  int    `koanf:"max_age_days"`
	MaxBackups  int    `koanf:"max_backups"`
	Compress    bool   `koanf:"compress"`
}

// MetricsConfig holds the Prometheus endpoint configuration
type MetricsConfig struct {
	Address string `koanf:"address" validate:"required"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"processor.environment":         "sandbox",
		"processor.timeout":             "60s",
		"processor.requests_per_second": 25,
		"processor.burst":               50,
		"processor.max_read_retries":    2,

		"database.max_conns":     10,
		"database.min_conns":     1,
		"database.query_timeout": "2s",

		"secrets.backend":           "none",
		"secrets.cache_ttl":         "5m",
		"secrets.vault_auth_method": "token",
		"secrets.vault_mount_path":  "secret",

		"logger.level":        "info",
		"logger.max_size_mb":  100,
		"logger.max_age_days": 28,
		"logger.max_backups":  3,

		"metrics.address": ":9090",
	}
}

// Load reads configuration from the given .env files (or ./.env when none are
// named and it exists), then from CARDVAULT_ environment variables, and validates it.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, EnvPrefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, domain.WrapError(domain.ErrorCodeConfigInvalid, "config validation failed", err)
	}

	return cfg, nil
}

// credentialsDocument is the JSON shape of a credentials secret
type credentialsDocument struct {
	MerchantID              string `json:"merchant_id"`
	MerchantAccountID       string `json:"merchant_account_id"`
	PublicKey               string `json:"public_key"`
	PrivateKey              string `json:"private_key"`
	ClientSideEncryptionKey string `json:"client_side_encryption_key"`
}

// ResolveCredentials fills processor credentials from the configured secret.
// Non-empty secret fields override values from the environment. Without a
// CredentialsSecret this only checks that the required credentials are set.
func (c *Config) ResolveCredentials(ctx context.Context, store ports.SecretStore) error {
	p := &c.Processor

	if p.CredentialsSecret != "" {
		if store == nil {
			return domain.WrapError(domain.ErrorCodeConfigInvalid,
				"credentials secret configured without a secrets backend", nil)
		}

		secret, err := store.GetSecret(ctx, p.CredentialsSecret)
		if err != nil {
			return domain.WrapError(domain.ErrorCodeConfigInvalid, "read processor credentials", err)
		}

		var doc credentialsDocument
		if err := json.Unmarshal([]byte(secret.Value), &doc); err != nil {
			return domain.WrapError(domain.ErrorCodeConfigInvalid, "decode processor credentials", err)
		}

		override(&p.MerchantID, doc.MerchantID)
		override(&p.MerchantAccountID, doc.MerchantAccountID)
		override(&p.PublicKey, doc.PublicKey)
		override(&p.PrivateKey, doc.PrivateKey)
		override(&p.ClientSideEncryptionKey, doc.ClientSideEncryptionKey)
	}

	missing := []string{}
	if p.MerchantID == "" {
		missing = append(missing, "merchant_id")
	}
	if p.PublicKey == "" {
		missing = append(missing, "public_key")
	}
	if p.PrivateKey == "" {
		missing = append(missing, "private_key")
	}
	if len(missing) > 0 {
		return domain.WrapError(domain.ErrorCodeConfigInvalid, "missing processor credentials",
			fmt.Errorf("set %s", strings.Join(missing, ", ")))
	}
	return nil
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
