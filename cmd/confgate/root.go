package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"streamhq/confgate/pkg/config"
	"streamhq/confgate/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "confgate",
	Short: "Rule-driven validation for managed connector configurations",
	Long: `Confgate validates Kafka Connect connector configurations against
CSV rule tables before they reach the platform.

Each field in a configuration is checked against the merged general and
direction-specific rule tables:
  - REQUIRE     the field must be present
  - IGNORE      the field is never inspected
  - DISALLOW    the field must not be present
  - ALLOW       the field may only carry its default or a listed value

The verdict carries every finding at once, so a single run reports all
missing, disallowed and invalid fields.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the confgate configuration. A missing file at the default
// path is not an error: defaults plus environment overrides apply.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); err != nil {
		if os.IsNotExist(err) && !rootCmd.PersistentFlags().Changed("config") {
			cfg := config.DefaultConfig()
			return cfg, nil
		}
		return nil, fmt.Errorf("config file %q: %w", cfgFile, err)
	}
	return config.LoadConfigWithEnvOverrides(cfgFile)
}

// setupLogger installs the configured logger as the process default and
// returns it. --verbose forces debug level.
func setupLogger(cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:  level,
		Format: cfg.Telemetry.Logging.Format,
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}
