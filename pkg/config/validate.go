package config

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"streamhq/confgate/pkg/cli"
)

// Validate checks a Config for invalid or inconsistent values.
// Failures are reported as *cli.ConfigError naming the offending field.
func Validate(cfg *Config) error {
	if err := validateRules(cfg); err != nil {
		return err
	}
	if err := validateHistory(cfg); err != nil {
		return err
	}
	return validateTelemetry(cfg)
}

func validateRules(cfg *Config) error {
	if cfg.Rules.Path == "" {
		return cli.NewConfigError("rules.path", "must not be empty")
	}
	return nil
}

func validateHistory(cfg *Config) error {
	switch cfg.History.Backend {
	case "sqlite", "memory":
	default:
		return cli.NewConfigError("history.backend",
			fmt.Sprintf("must be %q or %q, got %q", "sqlite", "memory", cfg.History.Backend))
	}
	if cfg.History.Backend == "sqlite" && cfg.History.SQLite.Path == "" {
		return cli.NewConfigError("history.sqlite.path", "must not be empty")
	}
	if cfg.History.Retention.MaxRecords < 0 {
		return cli.NewConfigError("history.retention.max_records",
			fmt.Sprintf("must not be negative, got %d", cfg.History.Retention.MaxRecords))
	}
	if s := cfg.History.Retention.PruneSchedule; s != "" {
		if _, err := cron.ParseStandard(s); err != nil {
			return cli.NewConfigError("history.retention.prune_schedule",
				fmt.Sprintf("%q is not a valid cron expression: %v", s, err))
		}
	}
	return nil
}

func validateTelemetry(cfg *Config) error {
	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return cli.NewConfigError("telemetry.logging.level",
			fmt.Sprintf("must be one of debug, info, warn, error, got %q", cfg.Telemetry.Logging.Level))
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return cli.NewConfigError("telemetry.logging.format",
			fmt.Sprintf("must be json or text, got %q", cfg.Telemetry.Logging.Format))
	}
	return nil
}
