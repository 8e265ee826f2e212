package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"cosmossdk.io/log"
	"github.com/spf13/pflag"

	"github.com/tarn-chain/tarn/api"
	"github.com/tarn-chain/tarn/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tarn-gateway: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("tarn-gateway", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to the gateway TOML config file")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	cfg, err := api.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	logger := log.NewLogger(os.Stderr)

	provider, err := telemetry.NewProvider(cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Error("telemetry shutdown failed", "err", err)
		}
	}()

	backend, err := api.NewNodeBackend(cfg.NodeRPC, cfg.Forward, logger)
	if err != nil {
		return fmt.Errorf("connect node: %w", err)
	}

	server, err := api.NewServer(cfg, backend, logger)
	if err != nil {
		return err
	}

	logger.Info("starting tarn gateway",
		"addr", fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		"chain_id", cfg.ChainID,
		"node", cfg.NodeRPC,
		"admin_enabled", cfg.AdminPasswordHash != "",
		"forward_enabled", cfg.Forward != nil,
	)

	return server.Start(context.Background())
}
