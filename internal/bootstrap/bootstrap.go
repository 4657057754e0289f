// Package bootstrap assembles the gateway and its collaborators from configuration.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/kevin07696/cardvault-gateway/internal/adapters/postgres"
	"github.com/kevin07696/cardvault-gateway/internal/adapters/processor"
	"github.com/kevin07696/cardvault-gateway/internal/adapters/secrets"
	"github.com/kevin07696/cardvault-gateway/internal/config"
	"github.com/kevin07696/cardvault-gateway/internal/domain/ports"
	"github.com/kevin07696/cardvault-gateway/internal/gateway"
	"github.com/kevin07696/cardvault-gateway/pkg/logging"
	"github.com/kevin07696/cardvault-gateway/pkg/observability"
)

// App holds the wired gateway and the resources it owns
type App struct {
	Gateway    *gateway.Gateway
	Processor  *processor.Client
	Repository *postgres.PaymentMethodRepository // nil without a database
	Health     *observability.HealthChecker
	pool       *pgxpool.Pool
	logger     *zap.Logger
}

// Close releases the database pool
func (a *App) Close() {
	if a.pool != nil {
		a.logger.Info("Closing PostgreSQL pool")
		a.pool.Close()
	}
}

// NewLogger builds the service logger from configuration
func NewLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	return logging.New(logging.Config{
		Level:       cfg.Level,
		Development: cfg.Development,
		Filename:    cfg.File,
		MaxSizeMB:   cfg.MaxSizeMB,
		MaxAgeDays:  cfg.MaxAgeDays,
		MaxBackups:  cfg.MaxBackups,
		Compress:    cfg.Compress,
	})
}

// NewSecretStore returns the configured secrets backend, or nil for "none"
func NewSecretStore(ctx context.Context, cfg config.SecretsConfig, logger *zap.Logger) (ports.SecretStore, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil

	case "local":
		return secrets.NewLocalSecretStore(cfg.LocalPath, logger), nil

	case "aws":
		awsCfg := secrets.DefaultAWSConfig(cfg.AWSRegion)
		awsCfg.Profile = cfg.AWSProfile
		awsCfg.Endpoint = cfg.AWSEndpoint
		if cfg.CacheTTL > 0 {
			awsCfg.CacheTTL = cfg.CacheTTL
		}
		return secrets.NewAWSSecretStore(ctx, awsCfg, logger)

	case "vault":
		vaultCfg := secrets.DefaultVaultConfig(cfg.VaultAddress)
		vaultCfg.AuthMethod = cfg.VaultAuthMethod
		vaultCfg.Token = cfg.VaultToken
		vaultCfg.RoleID = cfg.VaultRoleID
		vaultCfg.SecretID = cfg.VaultSecretID
		vaultCfg.Namespace = cfg.VaultNamespace
		if cfg.VaultMountPath != "" {
			vaultCfg.MountPath = cfg.VaultMountPath
		}
		if cfg.CacheTTL > 0 {
			vaultCfg.CacheTTL = cfg.CacheTTL
		}
		return secrets.NewVaultSecretStore(ctx, vaultCfg, logger)

	default:
		return nil, fmt.Errorf("unsupported secrets backend: %s", cfg.Backend)
	}
}

// ProcessorConfig maps application configuration onto the processor client.
// Credentials come from the gateway's preference map, so a blank merchant
// account id never reaches the client.
func ProcessorConfig(cfg config.ProcessorConfig) *processor.Config {
	opts := GatewayConfig(cfg).Options()

	pc := processor.DefaultConfig(opts["environment"])
	if cfg.BaseURL != "" {
		pc.BaseURL = cfg.BaseURL
	}
	pc.MerchantID = opts["merchant_id"]
	pc.MerchantAccountID = opts["merchant_account_id"]
	pc.PublicKey = opts["public_key"]
	pc.PrivateKey = opts["private_key"]
	pc.Timeout = cfg.Timeout
	pc.RequestsPerSecond = cfg.RequestsPerSecond
	pc.Burst = cfg.Burst
	pc.MaxReadRetries = cfg.MaxReadRetries
	return pc
}

// GatewayConfig maps application configuration onto the gateway
func GatewayConfig(cfg config.ProcessorConfig) gateway.Config {
	return gateway.Config{
		Environment:             gateway.Environment(cfg.Environment),
		MerchantID:              cfg.MerchantID,
		MerchantAccountID:       cfg.MerchantAccountID,
		PublicKey:               cfg.PublicKey,
		PrivateKey:              cfg.PrivateKey,
		ClientSideEncryptionKey: cfg.ClientSideEncryptionKey,
	}
}

// Build resolves credentials and wires the processor client, the optional
// payment method store and the gateway. Callers must Close the returned App.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := NewSecretStore(ctx, cfg.Secrets, logger)
	if err != nil {
		return nil, fmt.Errorf("secrets backend: %w", err)
	}
	if err := cfg.ResolveCredentials(ctx, store); err != nil {
		return nil, err
	}

	client := processor.NewClient(ProcessorConfig(cfg.Processor), nil, logger)
	app := &App{
		Processor: client,
		logger:    logger,
	}
	checks := map[string]observability.Pinger{"processor": client}

	opts := []gateway.Option{}
	if cfg.Database.Enabled() {
		pgCfg := postgres.DefaultConfig(cfg.Database.URL)
		pgCfg.MaxConns = cfg.Database.MaxConns
		pgCfg.MinConns = cfg.Database.MinConns
		pgCfg.QueryTimeout = cfg.Database.QueryTimeout

		pool, err := postgres.NewPool(ctx, pgCfg, logger)
		if err != nil {
			return nil, err
		}
		app.pool = pool

		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				app.Close()
				return nil, err
			}
		}

		app.Repository = postgres.NewPaymentMethodRepository(pool, pgCfg.QueryTimeout, logger)
		opts = append(opts, gateway.WithPaymentMethodStore(app.Repository))
		checks["database"] = pool
	} else {
		logger.Info("No database configured; vault fields are not persisted")
	}

	gw, err := gateway.New(GatewayConfig(cfg.Processor), client, logger, opts...)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Gateway = gw
	app.Health = observability.NewHealthChecker(checks)

	return app, nil
}
