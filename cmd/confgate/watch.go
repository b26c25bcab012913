package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"streamhq/confgate/pkg/cli"
	"streamhq/confgate/pkg/history"
	"streamhq/confgate/pkg/rules"
	"streamhq/confgate/pkg/telemetry/metrics"
	"streamhq/confgate/pkg/validate"
)

var watchFlags struct {
	direction string
	rulesDir  string
}

var watchCmd = &cobra.Command{
	Use:   "watch <config.json>",
	Short: "Re-validate a configuration whenever the rule tables change",
	Long: `Watch the rules directory and re-validate the given connector
configuration each time a rule table is saved. A failed reload keeps the
previous rule snapshot.

Runs until interrupted.

Examples:
  confgate watch connector.json --direction sink`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.direction, "direction", "d", "", "connector direction: source or sink (default: auto-detect)")
	watchCmd.Flags().StringVarP(&watchFlags.rulesDir, "rules", "r", "", "rule tables directory (overrides config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
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
		return cli.NewCommandError("watch", err)
	}

	var direction validate.Direction
	if watchFlags.direction != "" {
		direction, err = validate.ParseDirection(watchFlags.direction)
		if err != nil {
			return cli.NewCommandError("watch", err)
		}
	}

	rulesDir := cfg.Rules.Path
	if watchFlags.rulesDir != "" {
		rulesDir = watchFlags.rulesDir
	}

	var vm *metrics.ValidationMetrics
	if cfg.Telemetry.Metrics.Enabled {
		vm = metrics.NewValidationMetrics(cfg.Telemetry.Metrics.Namespace, prometheus.NewRegistry())
	}

	registry := rules.NewRegistry(rulesDir, logger)
	if err := registry.Load(); err != nil {
		return cli.NewCommandError("watch", err)
	}
	if vm != nil {
		if snap, err := registry.Snapshot(); err == nil {
			vm.RecordReload(true, snap.RuleCount())
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := rules.NewWatcher(registry, logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	if vm != nil {
		watcher.OnReload(func(reloadErr error) {
			if reloadErr != nil {
				vm.RecordReload(false, 0)
				return
			}
			if snap, snapErr := registry.Snapshot(); snapErr == nil {
				vm.RecordReload(true, snap.RuleCount())
			}
		})
	}
	watchErr := make(chan error, 1)
	go func() { watchErr <- watcher.Watch(ctx) }()

	// Scheduled retention pruning rides along while we run.
	if cfg.History.Enabled && cfg.History.Backend == "sqlite" {
		storage, err := openHistoryStorage(cfg)
		if err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer storage.Close()

		pruner := history.NewPruner(storage, &history.RetentionConfig{
			RetentionDays: cfg.History.Retention.Days,
			MaxRecords:    cfg.History.Retention.MaxRecords,
			PruneSchedule: cfg.History.Retention.PruneSchedule,
		})
		if err := pruner.Start(ctx); err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer pruner.Stop()
	}

	opts := []validate.Option{validate.WithLogger(logger)}
	if vm != nil {
		opts = append(opts, validate.WithMetrics(vm))
	}
	engine := validate.NewEngine(registry, opts...)

	revalidate := func() {
		verdict, err := engine.Validate(ctx, connConfig, direction)
		if err != nil {
			fmt.Printf("✗ %v\n", err)
			return
		}
		if verdict.IsValid {
			fmt.Printf("✓ valid (%s, %d rules)\n", verdict.Direction, verdict.RuleCount)
			return
		}
		for _, msg := range verdict.ErrorMessages {
			fmt.Printf("✗ %s\n", msg)
		}
	}

	revalidate()

	var lastLoaded time.Time
	if snap, err := registry.Snapshot(); err == nil {
		lastLoaded = snap.LoadedAt
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			watcher.Stop()
			<-watchErr
			return nil
		case err := <-watchErr:
			if err != nil && ctx.Err() == nil {
				return cli.NewCommandError("watch", err)
			}
			return nil
		case <-ticker.C:
			snap, err := registry.Snapshot()
			if err != nil || !snap.LoadedAt.After(lastLoaded) {
				continue
			}
			lastLoaded = snap.LoadedAt
			fmt.Println("--- rule tables reloaded ---")
			revalidate()
		}
	}
}
