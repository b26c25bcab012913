package config

import "time"

// Default values for configuration fields.
const (
	// Rules defaults
	DefaultRulesPath = "rules"

	// History defaults
	DefaultHistoryBackend       = "sqlite"
	DefaultSQLitePath           = "data/history.db"
	DefaultSQLiteMaxOpenConns   = 10
	DefaultSQLiteMaxIdleConns   = 5
	DefaultSQLiteBusyTimeout    = 5 * time.Second
	DefaultRecorderAsyncBuffer  = 1000
	DefaultRecorderWriteTimeout = 5 * time.Second
	DefaultRetentionDays        = 90
	DefaultRetentionSchedule    = "0 3 * * *"

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "text"
	DefaultMetricsNamespace = "confgate"
)

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Rules defaults
	if cfg.Rules.Path == "" {
		cfg.Rules.Path = DefaultRulesPath
	}

	// History defaults
	if cfg.History.Backend == "" {
		cfg.History.Backend = DefaultHistoryBackend
	}
	if cfg.History.SQLite.Path == "" {
		cfg.History.SQLite.Path = DefaultSQLitePath
	}
	if cfg.History.SQLite.MaxOpenConns == 0 {
		cfg.History.SQLite.MaxOpenConns = DefaultSQLiteMaxOpenConns
	}
	if cfg.History.SQLite.MaxIdleConns == 0 {
		cfg.History.SQLite.MaxIdleConns = DefaultSQLiteMaxIdleConns
	}
	if cfg.History.SQLite.BusyTimeout == 0 {
		cfg.History.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if cfg.History.Recorder.AsyncBuffer == 0 {
		cfg.History.Recorder.AsyncBuffer = DefaultRecorderAsyncBuffer
	}
	if cfg.History.Recorder.WriteTimeout == 0 {
		cfg.History.Recorder.WriteTimeout = DefaultRecorderWriteTimeout
	}
	if cfg.History.Retention.Days == 0 {
		cfg.History.Retention.Days = DefaultRetentionDays
	}
	if cfg.History.Retention.PruneSchedule == "" {
		cfg.History.Retention.PruneSchedule = DefaultRetentionSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// DefaultConfig returns a Config populated with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
