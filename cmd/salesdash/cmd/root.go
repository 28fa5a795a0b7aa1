// Package cmd provides CLI commands for salesdash.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"salesdash/internal/cli"
	"salesdash/internal/config"
	applog "salesdash/internal/log"
)

var (
	envFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "salesdash",
	Short: "Monthly sales reporting over a product transaction feed",
	Long: `salesdash loads a product transaction feed into a local store and
answers month-filtered reports over it: a paginated listing, sales
statistics, a price-range histogram and a category breakdown.

Example:
  salesdash serve
  salesdash seed
  salesdash report --month 06`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(reportCmd)
}

// bootstrap loads the env file and configuration and sets up logging.
func bootstrap(component string) (*config.Config, *applog.Logger, error) {
	if err := cli.LoadEnvFile(envFile); err != nil {
		return nil, nil, err
	}
	cfg := config.Load()
	if debug {
		cfg.LogLevel = "debug"
	}
	logger := cli.SetupLogger(cfg, component)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, nil, err
	}
	return cfg, logger, nil
}
