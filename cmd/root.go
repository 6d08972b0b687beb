package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/sspserver/statsgen/internal/config"
	"github.com/sspserver/statsgen/internal/logging"
	"github.com/sspserver/statsgen/pkg/output"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "statsgen",
	Short: "Synthetic ad-event INSERT generator",
	Long: `statsgen emits synthetic ClickHouse INSERT statements for the ad-serving
events table, one statement per line on stdout, to seed test and demo datasets.

Configuration cascade (priority order):
  1. Command-line flags
  2. STATSGEN_* environment variables (STATSGEN_OUTPUT_ROWS, ...)
  3. --config file, else ./statsgen.yaml, else ~/.statsgen/statsgen.yaml
  4. Built-in defaults`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.Error("%v", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./statsgen.yaml or ~/.statsgen/statsgen.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text, json")
}

// loadConfig loads the config file and applies the persistent logging flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
	return cfg, nil
}

// newLogger builds the stderr logger described by cfg.
func newLogger(cfg *config.Config) *logging.Logger {
	logger := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format, os.Stderr)
	logging.SetDefault(logger)
	return logger
}
