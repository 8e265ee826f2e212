package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cosmossdk.io/log"
	"github.com/spf13/pflag"

	"github.com/tarn-chain/tarn/indexer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tarn-indexer: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("tarn-indexer", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to the indexer TOML config file")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	cfg, err := indexer.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	logger := log.NewLogger(os.Stderr)

	store, err := indexer.NewStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := store.InitSchema(ctx); err != nil {
		return err
	}

	return indexer.New(cfg, store, logger).Run(ctx)
}
