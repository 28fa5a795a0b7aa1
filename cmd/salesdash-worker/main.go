package main

import (
	"context"
	"errors"
	"os"

	"salesdash/internal/cli"
	applog "salesdash/internal/log"
	"salesdash/internal/services"
	"salesdash/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = cli.LoadEnvFile("")

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		applog.New(applog.DefaultConfig()).Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg, applog.ComponentWorker)
	logger.Info("Starting salesdash-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	store, err := cli.OpenBackend(context.Background(), logger, cfg)
	if err != nil {
		logger.Error("Failed to open backend", applog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	amqpClient, err := cli.ConnectAMQP(logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// The worker performs seeds itself, so its service never publishes.
	seeder := services.NewSeedService(cli.NewFeedClient(cfg), store.Repository, nil)
	seedWorker := worker.NewSeedWorker(seeder, cfg.SeedTimeout)

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(context.Context) {
		logger.Info("Shutting down worker...")
	})

	if cfg.SeedOnStartup {
		logger.Info("Performing startup seed...")
		if err := seedWorker.StartupSeed(ctx); err != nil {
			logger.Error("Startup seed failed", applog.FieldError, err)
			// Don't exit - queued requests can still succeed
		}
	}

	go func() {
		if err := amqpClient.ConsumeSeedRequests(ctx, seedWorker.HandleSeedRequest); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", applog.FieldError, err)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
