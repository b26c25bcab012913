package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"streamhq/confgate/pkg/cli"
	"streamhq/confgate/pkg/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded validation verdicts",
	Long:  `Query and prune the validation history recorded by the check command.`,
}

var historyListFlags struct {
	direction string
	valid     bool
	invalid   bool
	since     time.Duration
	limit     int
	format    string
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded validation verdicts",
	Long: `List recorded validation verdicts, newest first.

Examples:
  # Last 20 sink validations
  confgate history list --direction sink --limit 20

  # Failed validations from the past day
  confgate history list --invalid --since 24h`,
	RunE: runHistoryList,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Apply the retention policy to the history store",
	Long: `Delete records older than the configured retention period and trim
the store to the configured maximum record count.`,
	RunE: runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyListCmd.Flags().StringVarP(&historyListFlags.direction, "direction", "d", "", "filter by direction: source or sink")
	historyListCmd.Flags().BoolVar(&historyListFlags.valid, "valid", false, "only valid verdicts")
	historyListCmd.Flags().BoolVar(&historyListFlags.invalid, "invalid", false, "only invalid verdicts")
	historyListCmd.Flags().DurationVar(&historyListFlags.since, "since", 0, "only verdicts newer than this age (e.g. 24h)")
	historyListCmd.Flags().IntVarP(&historyListFlags.limit, "limit", "n", 50, "maximum number of records")
	historyListCmd.Flags().StringVar(&historyListFlags.format, "format", "text", "output format: text, json")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := setupLogger(cfg); err != nil {
		return err
	}
	if cfg.History.Backend != "sqlite" {
		return cli.NewCommandError("history", fmt.Errorf("history queries require the sqlite backend, configured backend is %q", cfg.History.Backend))
	}

	storage, err := openHistoryStorage(cfg)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer storage.Close()

	query := &history.Query{
		Direction: historyListFlags.direction,
		Limit:     historyListFlags.limit,
	}
	if historyListFlags.valid != historyListFlags.invalid {
		v := historyListFlags.valid
		query.Valid = &v
	}
	if historyListFlags.since > 0 {
		since := time.Now().Add(-historyListFlags.since)
		query.Since = &since
	}

	records, err := storage.Query(cmd.Context(), query)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	if historyListFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, records)
	}
	return printRecordsText(records)
}

func printRecordsText(records []*history.Record) error {
	if len(records) == 0 {
		fmt.Println("No records found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VALIDATED AT\tDIRECTION\tVALID\tCONNECTOR\tFINDINGS")
	for _, r := range records {
		connector := r.ConnectorName
		if connector == "" {
			connector = r.ConnectorClass
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%d\n",
			r.ValidatedAt.Format(time.RFC3339), r.Direction, r.Valid, connector, len(r.ErrorMessages))
	}
	return w.Flush()
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := setupLogger(cfg); err != nil {
		return err
	}
	if cfg.History.Backend != "sqlite" {
		return cli.NewCommandError("history", fmt.Errorf("history pruning requires the sqlite backend, configured backend is %q", cfg.History.Backend))
	}

	storage, err := openHistoryStorage(cfg)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer storage.Close()

	pruner := history.NewPruner(storage, &history.RetentionConfig{
		RetentionDays: cfg.History.Retention.Days,
		MaxRecords:    cfg.History.Retention.MaxRecords,
		PruneSchedule: cfg.History.Retention.PruneSchedule,
	})

	deleted, err := pruner.Prune(cmd.Context())
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	fmt.Printf("Deleted %d record(s)\n", deleted)
	return nil
}
