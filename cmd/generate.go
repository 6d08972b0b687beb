package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/sspserver/statsgen/internal/config"
	"github.com/sspserver/statsgen/internal/generator"
	"github.com/sspserver/statsgen/internal/logging"
	"github.com/sspserver/statsgen/internal/metrics"
	"github.com/sspserver/statsgen/pkg/output"
)

var (
	genRows         int
	genTable        string
	genWindowDays   int
	genBackStepDays int
	genStart        string
	genMetricsFile  string
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Print synthetic INSERT statements to stdout",
	Long: `Generate synthetic ad-serving event rows and print one INSERT statement per row.

The timing columns are emitted as now()-relative expressions, so the rows land
inside the window whenever the SQL is eventually executed.

Examples:
  # Default 50000 rows into stats.events_local
  statsgen generate > events.sql

  # Small sample straight into clickhouse-client
  statsgen generate --rows 100 | clickhouse-client --multiquery

  # Spread rows over 30 days ending 10 days ago
  statsgen generate --window-days 30 --back-step-days 40`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVarP(&genRows, "rows", "n", 0, "Number of rows to generate")
	generateCmd.Flags().StringVar(&genTable, "table", "", "Target table (schema.table)")
	generateCmd.Flags().IntVar(&genWindowDays, "window-days", 0, "Days the rows are spread over")
	generateCmd.Flags().IntVar(&genBackStepDays, "back-step-days", 0, "Days the first row lies before execution time")
	generateCmd.Flags().StringVar(&genStart, "start", "", "Calendar window start for created_at (2006-01-02 or RFC3339)")
	generateCmd.Flags().StringVar(&genMetricsFile, "metrics-file", "", "Write prometheus metrics to this textfile after the run")
}

// applyGenerateFlags overrides cfg with the flags the user actually set.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("rows") {
		cfg.Output.Rows = genRows
	}
	if cmd.Flags().Changed("table") {
		cfg.Output.Table = genTable
	}
	if cmd.Flags().Changed("window-days") {
		cfg.Window.Days = genWindowDays
	}
	if cmd.Flags().Changed("back-step-days") {
		cfg.Window.BackStepDays = genBackStepDays
	}
	if cmd.Flags().Changed("start") {
		cfg.Window.Start = genStart
	}
	if cmd.Flags().Changed("metrics-file") {
		cfg.Metrics.Textfile = genMetricsFile
	}
	return cfg.Validate()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyGenerateFlags(cmd, cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cfg)

	params, err := generator.ParamsFromConfig(cfg, time.Now())
	if err != nil {
		return fmt.Errorf("invalid window: %w", err)
	}

	m := metrics.New(cfg.Output.Table)
	gen, err := generator.New(params, generator.NewFakerSource(),
		generator.WithRecorder(m),
		generator.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	ctx := logging.ContextWithRunID(cmd.Context(), uuid.NewString())
	logger.InfoContext(ctx, "generating rows",
		logging.Table(params.Table),
		logging.Rows(params.Rows),
		"window_days", params.WindowDays,
		"back_step_days", params.BackStepDays,
	)

	started := time.Now()
	runErr := gen.Run(ctx, cmd.OutOrStdout())
	m.Finish(started, runErr)

	if cfg.Metrics.Textfile != "" {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.WarnContext(ctx, "failed to write metrics textfile",
				logging.Path(cfg.Metrics.Textfile), logging.Error(err))
			output.Warn("Metrics textfile not written: %v", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("generation failed: %w", runErr)
	}

	rows, bytes := m.Totals()
	logger.InfoContext(ctx, "generation complete",
		logging.Rows(int(rows)),
		logging.Bytes(bytes),
		logging.Duration(time.Since(started)),
	)
	return nil
}
