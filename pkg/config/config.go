package config

import "time"

// Config is the root configuration structure for confgate.
type Config struct {
	// Rules contains rule table configuration.
	Rules RulesConfig `yaml:"rules"`

	// History contains validation history configuration.
	History HistoryConfig `yaml:"history"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// RulesConfig configures where rule tables are loaded from.
type RulesConfig struct {
	// Path is the directory containing the rule CSV files.
	Path string `yaml:"path"`

	// Watch enables automatic reloading when rule files change.
	Watch bool `yaml:"watch"`
}

// HistoryConfig configures validation history recording.
type HistoryConfig struct {
	// Enabled enables history recording.
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage backend: "sqlite" or "memory".
	Backend string `yaml:"backend"`

	// SQLite configures the SQLite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Recorder configures the async recorder.
	Recorder RecorderConfig `yaml:"recorder"`

	// Retention configures record retention.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig configures the SQLite history backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns int `yaml:"max_idle_conns"`

	// BusyTimeout is the duration to wait when the database is locked.
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RecorderConfig configures the async history recorder.
type RecorderConfig struct {
	// AsyncBuffer is the size of the async write channel buffer.
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout is the timeout for storage writes.
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RetentionConfig configures history retention.
type RetentionConfig struct {
	// Days is the number of days to retain records. 0 selects the default
	// retention; a negative value disables age-based pruning entirely.
	Days int `yaml:"days"`

	// MaxRecords is the maximum number of records to keep. 0 means unlimited.
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is a cron expression for scheduled pruning.
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig configures logging and metrics.
type TelemetryConfig struct {
	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is the output format: json or text.
	Format string `yaml:"format"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled enables metrics collection.
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	Namespace string `yaml:"namespace"`
}
