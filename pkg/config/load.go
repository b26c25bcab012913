package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention CONFGATE_SECTION_FIELD (e.g., CONFGATE_RULES_PATH) and always
// take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Rules overrides
	if val := os.Getenv("CONFGATE_RULES_PATH"); val != "" {
		cfg.Rules.Path = val
	}
	if val := os.Getenv("CONFGATE_RULES_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Rules.Watch = b
		}
	}

	// History overrides
	if val := os.Getenv("CONFGATE_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("CONFGATE_HISTORY_BACKEND"); val != "" {
		cfg.History.Backend = val
	}
	if val := os.Getenv("CONFGATE_HISTORY_SQLITE_PATH"); val != "" {
		cfg.History.SQLite.Path = val
	}
	if val := os.Getenv("CONFGATE_HISTORY_SQLITE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.History.SQLite.BusyTimeout = d
		}
	}
	if val := os.Getenv("CONFGATE_HISTORY_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.History.Retention.Days = i
		}
	}
	if val := os.Getenv("CONFGATE_HISTORY_RETENTION_MAX_RECORDS"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.History.Retention.MaxRecords = i
		}
	}
	if val := os.Getenv("CONFGATE_HISTORY_RETENTION_PRUNE_SCHEDULE"); val != "" {
		cfg.History.Retention.PruneSchedule = val
	}

	// Telemetry overrides
	if val := os.Getenv("CONFGATE_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("CONFGATE_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("CONFGATE_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("CONFGATE_TELEMETRY_METRICS_NAMESPACE"); val != "" {
		cfg.Telemetry.Metrics.Namespace = val
	}
}
