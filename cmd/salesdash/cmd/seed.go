package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"salesdash/internal/cli"
	applog "salesdash/internal/log"
)

var queueSeed bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the stored transactions with the feed contents",
	Long: `Download the seed feed and replace the stored collection.

With --queue the request is published to AMQP for salesdash-worker
instead of running here.

Example:
  salesdash seed
  salesdash seed --queue`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&queueSeed, "queue", false, "publish a seed request to AMQP instead of seeding inline")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap(applog.ComponentSeed)
	if err != nil {
		return err
	}

	store, err := cli.OpenBackend(cmd.Context(), logger, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if queueSeed {
		if cfg.AMQPURL == "" {
			return fmt.Errorf("--queue requires AMQP_URL")
		}
		amqpClient, err := cli.ConnectAMQP(logger, cfg)
		if err != nil {
			return err
		}
		defer amqpClient.Close()

		id, err := cli.NewSeedService(cfg, store, amqpClient).RequestSeed(cmd.Context(), "cli")
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seed request queued: %s\n", id)
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.SeedTimeout)
	defer cancel()

	n, err := cli.NewSeedService(cfg, store, nil).Seed(ctx)
	if err != nil {
		logger.Error("Seed failed", applog.FieldError, err, "feed_url", cfg.SeedFeedURL)
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d transactions from %s\n", n, cfg.SeedFeedURL)
	return nil
}
