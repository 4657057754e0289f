package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kevin07696/cardvault-gateway/internal/adapters/processor"
	"github.com/kevin07696/cardvault-gateway/internal/bootstrap"
	"github.com/kevin07696/cardvault-gateway/internal/config"
	"github.com/kevin07696/cardvault-gateway/pkg/observability"
	"github.com/kevin07696/cardvault-gateway/pkg/shutdown"
)

var (
	flags   = flag.NewFlagSet("gateway-check", flag.ExitOnError)
	envFile = flags.String("env", "", "optional .env file to load before the environment")
	serve   = flags.Bool("serve", false, "keep serving /metrics and /health after the check")
	timeout = flags.Duration("timeout", 30*time.Second, "deadline for the credential check")
)

func main() {
	_ = flags.Parse(os.Args[1:])

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}

	cfg, err := config.Load(envFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := bootstrap.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting gateway check",
		zap.String("version", processor.Version),
		zap.String("environment", cfg.Processor.Environment),
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("Gateway check failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	app, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build gateway: %w", err)
	}

	// A client token can only be issued with valid merchant credentials
	if _, err := app.Gateway.ClientToken(ctx, nil); err != nil {
		app.Close()
		return fmt.Errorf("verify credentials: %w", err)
	}
	logger.Info("Processor credentials verified",
		zap.String("merchant_id", cfg.Processor.MerchantID),
		zap.Bool("persistence", app.Repository != nil),
	)

	if !*serve {
		app.Close()
		return nil
	}

	manager := shutdown.NewManager(logger, 10*time.Second)
	manager.RegisterNoErr("app", app.Close)

	server := observability.StartMetricsServer(cfg.Metrics.Address, app.Health, logger)
	manager.Register("metrics", func(context.Context) error {
		return observability.ShutdownMetricsServer(server)
	})

	if failures := manager.WaitForShutdown(context.Background()); len(failures) > 0 {
		return fmt.Errorf("%d components failed to shut down", len(failures))
	}
	return nil
}
