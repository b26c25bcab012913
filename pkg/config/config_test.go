package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"streamhq/confgate/pkg/cli"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "confgate.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
rules:
  path: /etc/confgate/rules
  watch: true
history:
  enabled: true
  backend: sqlite
  sqlite:
    path: /var/lib/confgate/history.db
  retention:
    days: 30
telemetry:
  logging:
    level: debug
    format: json
  metrics:
    enabled: true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Rules.Path != "/etc/confgate/rules" {
		t.Errorf("Rules.Path = %q", cfg.Rules.Path)
	}
	if !cfg.Rules.Watch {
		t.Error("Rules.Watch should be true")
	}
	if !cfg.History.Enabled || cfg.History.Backend != "sqlite" {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.History.SQLite.Path != "/var/lib/confgate/history.db" {
		t.Errorf("History.SQLite.Path = %q", cfg.History.SQLite.Path)
	}
	if cfg.History.Retention.Days != 30 {
		t.Errorf("Retention.Days = %d, want 30", cfg.History.Retention.Days)
	}
	if cfg.Telemetry.Logging.Level != "debug" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Telemetry.Logging)
	}

	// Defaults fill the gaps.
	if cfg.History.SQLite.MaxOpenConns != DefaultSQLiteMaxOpenConns {
		t.Errorf("SQLite.MaxOpenConns = %d", cfg.History.SQLite.MaxOpenConns)
	}
	if cfg.History.Recorder.WriteTimeout != DefaultRecorderWriteTimeout {
		t.Errorf("Recorder.WriteTimeout = %v", cfg.History.Recorder.WriteTimeout)
	}
	if cfg.Telemetry.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("Metrics.Namespace = %q", cfg.Telemetry.Metrics.Namespace)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadConfig() for a missing file should fail")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "rules: [not a mapping")
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() with invalid YAML should fail")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
rules:
  path: /etc/confgate/rules
`)

	t.Setenv("CONFGATE_RULES_PATH", "/opt/rules")
	t.Setenv("CONFGATE_RULES_WATCH", "true")
	t.Setenv("CONFGATE_HISTORY_ENABLED", "true")
	t.Setenv("CONFGATE_HISTORY_BACKEND", "memory")
	t.Setenv("CONFGATE_HISTORY_SQLITE_BUSY_TIMEOUT", "10s")
	t.Setenv("CONFGATE_TELEMETRY_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Rules.Path != "/opt/rules" {
		t.Errorf("Rules.Path = %q, want env override", cfg.Rules.Path)
	}
	if !cfg.Rules.Watch {
		t.Error("Rules.Watch should be overridden to true")
	}
	if !cfg.History.Enabled || cfg.History.Backend != "memory" {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.History.SQLite.BusyTimeout != 10*time.Second {
		t.Errorf("SQLite.BusyTimeout = %v, want 10s", cfg.History.SQLite.BusyTimeout)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Telemetry.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(cfg *Config) {}, false},
		{"empty rules path", func(cfg *Config) { cfg.Rules.Path = "" }, true},
		{"unknown backend", func(cfg *Config) { cfg.History.Backend = "postgres" }, true},
		{"memory backend without sqlite path", func(cfg *Config) {
			cfg.History.Backend = "memory"
			cfg.History.SQLite.Path = ""
		}, false},
		{"negative retention days disable age pruning", func(cfg *Config) { cfg.History.Retention.Days = -1 }, false},
		{"negative max records", func(cfg *Config) { cfg.History.Retention.MaxRecords = -1 }, true},
		{"bad prune schedule", func(cfg *Config) { cfg.History.Retention.PruneSchedule = "every day" }, true},
		{"unknown log level", func(cfg *Config) { cfg.Telemetry.Logging.Level = "loud" }, true},
		{"unknown log format", func(cfg *Config) { cfg.Telemetry.Logging.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults_KeepsNegativeRetention(t *testing.T) {
	cfg := &Config{}
	cfg.History.Retention.Days = -1
	ApplyDefaults(cfg)
	if cfg.History.Retention.Days != -1 {
		t.Errorf("Retention.Days = %d, want -1 preserved", cfg.History.Retention.Days)
	}
}

func TestValidate_NamesOffendingField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.History.Backend = "postgres"

	var cfgErr *cli.ConfigError
	if err := Validate(cfg); !errors.As(err, &cfgErr) {
		t.Fatalf("Validate() error = %v, want *cli.ConfigError", err)
	}
	if cfgErr.Field != "history.backend" {
		t.Errorf("Field = %q, want history.backend", cfgErr.Field)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := DefaultConfig()
	before := *cfg
	ApplyDefaults(cfg)
	if *cfg != before {
		t.Error("ApplyDefaults() should not change an already-defaulted config")
	}
}
