package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"streamhq/confgate/pkg/cli"
	"streamhq/confgate/pkg/config"
	"streamhq/confgate/pkg/history"
	"streamhq/confgate/pkg/rules"
	"streamhq/confgate/pkg/telemetry/metrics"
	"streamhq/confgate/pkg/validate"
)

var checkFlags struct {
	direction string
	rulesDir  string
	format    string
}

var checkCmd = &cobra.Command{
	Use:   "check <config.json>",
	Short: "Validate a connector configuration",
	Long: `Validate a connector configuration file against the rule tables.

The configuration is a JSON object of connector fields. The direction
(source or sink) is auto-detected from the connector.class field unless
--direction is given. Pass "-" to read the configuration from stdin.

The command exits non-zero when the configuration is invalid.

Examples:
  # Validate with auto-detected direction
  confgate check connector.json

  # Force the sink rule tables
  confgate check connector.json --direction sink

  # JSON verdict for CI/CD
  confgate check connector.json --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.direction, "direction", "d", "", "connector direction: source or sink (default: auto-detect)")
	checkCmd.Flags().StringVarP(&checkFlags.rulesDir, "rules", "r", "", "rule tables directory (overrides config)")
	checkCmd.Flags().StringVar(&checkFlags.format, "format", "text", "output format: text, json")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := setupLogger(cfg)
	if err != nil {
		return err
	}

	connConfig, err := readConnectorConfig(args[0])
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	var direction validate.Direction
	if checkFlags.direction != "" {
		direction, err = validate.ParseDirection(checkFlags.direction)
		if err != nil {
			return cli.NewCommandError("check", err)
		}
	}

	rulesDir := cfg.Rules.Path
	if checkFlags.rulesDir != "" {
		rulesDir = checkFlags.rulesDir
	}

	registry := rules.NewRegistry(rulesDir, logger)
	if err := registry.Load(); err != nil {
		return cli.NewCommandError("check", err)
	}

	opts := []validate.Option{validate.WithLogger(logger)}
	if cfg.Telemetry.Metrics.Enabled {
		vm := metrics.NewValidationMetrics(cfg.Telemetry.Metrics.Namespace, prometheus.NewRegistry())
		opts = append(opts, validate.WithMetrics(vm))
	}
	engine := validate.NewEngine(registry, opts...)

	start := time.Now()
	verdict, err := engine.Validate(cmd.Context(), connConfig, direction)
	if err != nil {
		return cli.NewCommandError("check", err)
	}
	elapsed := time.Since(start)

	if cfg.History.Enabled {
		if err := recordVerdict(cfg, connConfig, verdict, elapsed); err != nil {
			logger.Warn("failed to record validation history", "error", err)
		}
	}

	if err := printVerdict(verdict); err != nil {
		return err
	}

	if !verdict.IsValid {
		return cli.NewCommandError("check", fmt.Errorf("configuration is invalid"))
	}
	return nil
}

// readConnectorConfig reads a connector configuration JSON object from a
// file, or from stdin when path is "-".
func readConnectorConfig(path string) (validate.Config, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading connector config: %w", err)
	}

	var connConfig validate.Config
	if err := json.Unmarshal(data, &connConfig); err != nil {
		return nil, fmt.Errorf("parsing connector config: %w", err)
	}
	return connConfig, nil
}

// recordVerdict writes the verdict to the configured history backend.
func recordVerdict(cfg *config.Config, connConfig validate.Config, verdict *validate.Verdict, elapsed time.Duration) error {
	storage, err := openHistoryStorage(cfg)
	if err != nil {
		return err
	}
	defer storage.Close()

	recorder := history.NewRecorder(storage, &history.RecorderConfig{
		Enabled:      true,
		AsyncBuffer:  cfg.History.Recorder.AsyncBuffer,
		WriteTimeout: cfg.History.Recorder.WriteTimeout,
	})
	defer recorder.Close()

	record := history.NewRecord(connConfig, verdict, elapsed)
	return recorder.Record(context.Background(), record)
}

// openHistoryStorage opens the configured history storage backend.
func openHistoryStorage(cfg *config.Config) (history.Storage, error) {
	switch cfg.History.Backend {
	case "memory":
		return history.NewMemoryStorage(), nil
	case "sqlite":
		return history.NewSQLiteStorage(&history.SQLiteConfig{
			Path:         cfg.History.SQLite.Path,
			MaxOpenConns: cfg.History.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.History.SQLite.MaxIdleConns,
			WALMode:      true,
			BusyTimeout:  cfg.History.SQLite.BusyTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
	}
}

// printVerdict writes the verdict in the selected output format.
func printVerdict(verdict *validate.Verdict) error {
	if checkFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, verdict)
	}

	fmt.Printf("Direction: %s\n", verdict.Direction)
	fmt.Printf("Rules evaluated: %d\n", verdict.RuleCount)

	if verdict.IsValid {
		fmt.Println("✓ Configuration is valid")
		return nil
	}

	for _, msg := range verdict.ErrorMessages {
		fmt.Printf("✗ %s\n", msg)
	}
	return nil
}
