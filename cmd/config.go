package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sspserver/statsgen/internal/config"
	"github.com/sspserver/statsgen/pkg/output"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
	Long:  "Inspect, validate and scaffold statsgen configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  "Check if the configuration is valid without generating anything",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "Configuration is valid:")
		fmt.Fprintf(w, "  Version: %s\n", cfg.Version)
		fmt.Fprintf(w, "  Table: %s\n", cfg.Output.Table)
		fmt.Fprintf(w, "  Rows: %d\n", cfg.Output.Rows)
		fmt.Fprintf(w, "  Window: %d days\n", cfg.Window.Days)
		fmt.Fprintf(w, "  Back step: %d days\n", cfg.Window.BackStepDays)
		if cfg.Window.Start != "" {
			fmt.Fprintf(w, "  Window start: %s\n", cfg.Window.Start)
		} else {
			fmt.Fprintf(w, "  Window start: now - %d days\n", cfg.Window.LookbackDays)
		}
		fmt.Fprintf(w, "  Event types: %v\n", cfg.Domains.EventTypes)
		fmt.Fprintf(w, "  Countries: %v\n", cfg.Domains.Countries)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		data, err := cfg.Marshal()
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration to a file",
	Long:  "Write the built-in defaults as YAML (default: ~/.statsgen/statsgen.yaml)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) > 0 {
			path = args[0]
		} else {
			p, err := config.DefaultPath()
			if err != nil {
				return fmt.Errorf("failed to determine home directory: %w", err)
			}
			path = p
		}

		if !configInitForce {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
		}

		if err := config.Default().Save(path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		output.Success("Wrote default configuration to %s", path)
		output.Info("Check it with: statsgen config validate --config %s", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing file")
}
