package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"streamhq/confgate/pkg/cli"
	"streamhq/confgate/pkg/rules"
	"streamhq/confgate/pkg/validate"
)

var rulesFlags struct {
	direction string
	rulesDir  string
	format    string
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the effective rules for a direction",
	Long: `List the effective rule set for a connector direction.

The general rule table is merged with the direction-specific table; a
direction rule for a field already covered by the general table overrides
it in place.

Examples:
  # Effective sink rules
  confgate rules --direction sink

  # CSV output
  confgate rules --direction source --format csv`,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().StringVarP(&rulesFlags.direction, "direction", "d", "", "connector direction: source or sink")
	rulesCmd.Flags().StringVarP(&rulesFlags.rulesDir, "rules", "r", "", "rule tables directory (overrides config)")
	rulesCmd.Flags().StringVar(&rulesFlags.format, "format", "text", "output format: text, json, csv")
	rulesCmd.MarkFlagRequired("direction")
}

// ruleRow is one effective rule in command output.
type ruleRow struct {
	Name          string   `json:"name"`
	Action        string   `json:"action"`
	Default       string   `json:"default,omitempty"`
	AllowedValues []string `json:"allowed_values,omitempty"`
}

// ruleRows renders as CSV via cli.Tabular.
type ruleRows []ruleRow

func (ruleRows) Headers() []string { return []string{"name", "action", "default", "allowed_values"} }

func (rs ruleRows) Rows() [][]string {
	out := make([][]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, []string{r.Name, r.Action, r.Default, strings.Join(r.AllowedValues, ", ")})
	}
	return out
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := setupLogger(cfg)
	if err != nil {
		return err
	}

	direction, err := validate.ParseDirection(rulesFlags.direction)
	if err != nil {
		return cli.NewCommandError("rules", err)
	}

	rulesDir := cfg.Rules.Path
	if rulesFlags.rulesDir != "" {
		rulesDir = rulesFlags.rulesDir
	}

	registry := rules.NewRegistry(rulesDir, logger)
	if err := registry.Load(); err != nil {
		return cli.NewCommandError("rules", err)
	}
	snap, err := registry.Snapshot()
	if err != nil {
		return cli.NewCommandError("rules", err)
	}

	set := validate.Resolve(snap, direction)
	out := make(ruleRows, 0, set.Len())
	for _, r := range set.Rules() {
		out = append(out, ruleRow{
			Name:          r.Name,
			Action:        string(r.Action),
			Default:       r.DefaultValue,
			AllowedValues: r.AllowedValues,
		})
	}

	switch rulesFlags.format {
	case "json":
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, out)
	case "csv":
		return cli.NewFormatter(cli.FormatCSV).FormatTo(os.Stdout, out)
	default:
		return printRulesText(string(direction), out)
	}
}

func printRulesText(direction string, rows ruleRows) error {
	fmt.Printf("Effective %s rules (%d):\n\n", direction, len(rows))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tACTION\tDEFAULT\tALLOWED VALUES")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.Action, r.Default, strings.Join(r.AllowedValues, ", "))
	}
	return w.Flush()
}
