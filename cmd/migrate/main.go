package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kevin07696/cardvault-gateway/internal/adapters/postgres"
	"github.com/kevin07696/cardvault-gateway/internal/bootstrap"
	"github.com/kevin07696/cardvault-gateway/internal/config"
)

var (
	flags   = flag.NewFlagSet("migrate", flag.ExitOnError)
	envFile = flags.String("env", "", "optional .env file to load before the environment")
	timeout = flags.Duration("timeout", time.Minute, "deadline for applying the schema")
)

func main() {
	flags.Usage = usage
	_ = flags.Parse(os.Args[1:])

	args := flags.Args()
	if len(args) != 1 || args[0] != "up" {
		flags.Usage()
		os.Exit(2)
	}

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}

	cfg, err := config.Load(envFiles...)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if !cfg.Database.Enabled() {
		log.Fatalf("CARDVAULT_DATABASE__URL is not set")
	}

	logger, err := bootstrap.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, postgres.DefaultConfig(cfg.Database.URL), logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate up: %v", err)
	}
	logger.Info("Schema is up to date")
}

func usage() {
	fmt.Print(`Usage: migrate [-env FILE] up

Commands:
    up    Apply the bundled payment_methods schema (idempotent)

Configuration is read from CARDVAULT_ environment variables.
`)
}
