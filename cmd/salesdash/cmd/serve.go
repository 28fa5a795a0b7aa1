package cmd

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"salesdash/internal/cli"
	apphttp "salesdash/internal/http"
	applog "salesdash/internal/log"
	"salesdash/internal/services"
	"salesdash/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and dashboard",
	Long: `Run the HTTP API and the server-rendered dashboard.

With AMQP_URL set, /initialize queues seed requests for salesdash-worker;
otherwise seeds run inline. SEED_ON_STARTUP=true loads the feed before
the server starts listening.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap(applog.ComponentHTTP)
	if err != nil {
		return err
	}

	store, err := cli.OpenBackend(cmd.Context(), logger, cfg)
	if err != nil {
		logger.Error("Failed to open backend", applog.FieldError, err, "backend", cfg.DataBackend)
		return err
	}
	defer store.Close()

	amqpClient, err := cli.ConnectAMQP(logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		return err
	}
	if amqpClient != nil {
		defer amqpClient.Close()
	}

	seeder := cli.NewSeedService(cfg, store, amqpClient)
	reports := services.NewReportService(store.Repository, cfg.ReportYear)

	if cfg.SeedOnStartup {
		// Startup seeding always runs inline, regardless of the broker.
		inline := services.NewSeedService(cli.NewFeedClient(cfg), store.Repository, nil)
		if err := worker.NewSeedWorker(inline, cfg.SeedTimeout).StartupSeed(cmd.Context()); err != nil {
			logger.Error("Startup seed failed", applog.FieldError, err)
		}
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:               cfg.Addr(),
		DefaultPerPage:     cfg.DefaultPerPage,
		MaxPerPage:         cfg.MaxPerPage,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		SeedRateLimit:      cfg.SeedRateLimit,
		SeedTimeout:        cfg.SeedTimeout,
		Logger:             logger,
	}, reports, seeder, store.Repository)

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
	})

	logger.Info("Starting salesdash server",
		"addr", cfg.Addr(),
		"backend", cfg.DataBackend,
		"report_year", reports.Year(),
		"async_seed", seeder.Async())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "addr", cfg.Addr())
		return err
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
	return nil
}
