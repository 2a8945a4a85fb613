package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"budgeteer/internal/amqp"
	"budgeteer/internal/cli"
	"budgeteer/internal/sheets"
	"budgeteer/internal/sheets/google"
	"budgeteer/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	logger.Info("Starting budgeteer worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	snapshots := cli.OpenSnapshotStore(logger, cfg)

	exporter, err := google.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err, "url", cfg.AMQPURL)
		os.Exit(1)
	}

	ctx := cli.GracefulShutdown(logger, shutdownTimeout, func() {
		amqpClient.Close()
		snapshots.Close()
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeSnapshotSaved(ctx, syncHandler(ctx, logger, snapshots, exporter))
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				logger.Debug("Worker heartbeat")
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped")
}

// syncHandler exports the current transactions snapshot whenever a
// snapshot-saved message arrives. The message only announces that a new
// snapshot exists; the store is the source of truth for its contents.
func syncHandler(ctx context.Context, logger *slog.Logger, snapshots store.Store, exporter sheets.TransactionAppender) func(*amqp.SnapshotMessage) error {
	return func(msg *amqp.SnapshotMessage) error {
		txns, err := snapshots.LoadTransactions(ctx)
		if err != nil {
			return fmt.Errorf("load transactions snapshot: %w", err)
		}
		if len(txns) == 0 {
			logger.Warn("Snapshot message received but no transactions stored",
				"provider", msg.Provider,
				"announced_count", msg.Count)
			return nil
		}

		rows, err := exporter.AppendTransactions(ctx, txns)
		if err != nil {
			return fmt.Errorf("append transactions to sheet: %w", err)
		}

		logger.Info("Exported snapshot to Google Sheets",
			"provider", msg.Provider,
			"transactions", len(txns),
			"rows_appended", rows)
		return nil
	}
}
