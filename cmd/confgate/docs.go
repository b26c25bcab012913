package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"streamhq/confgate/pkg/cli"
	"streamhq/confgate/pkg/docs"
	"streamhq/confgate/pkg/rules"
)

var docsFlags struct {
	rulesDir string
	output   string
}

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Generate Markdown documentation for the rule tables",
	Long: `Generate Markdown documentation describing the configurable connector
fields: required fields and fields with a constrained value set.

Examples:
  # Print documentation to stdout
  confgate docs

  # Write it to a file
  confgate docs --output CONFIGURATION.md`,
	RunE: runDocs,
}

func init() {
	rootCmd.AddCommand(docsCmd)

	docsCmd.Flags().StringVarP(&docsFlags.rulesDir, "rules", "r", "", "rule tables directory (overrides config)")
	docsCmd.Flags().StringVarP(&docsFlags.output, "output", "o", "", "write documentation to a file instead of stdout")
}

func runDocs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := setupLogger(cfg)
	if err != nil {
		return err
	}

	rulesDir := cfg.Rules.Path
	if docsFlags.rulesDir != "" {
		rulesDir = docsFlags.rulesDir
	}

	registry := rules.NewRegistry(rulesDir, logger)
	if err := registry.Load(); err != nil {
		return cli.NewCommandError("docs", err)
	}
	snap, err := registry.Snapshot()
	if err != nil {
		return cli.NewCommandError("docs", err)
	}

	doc := docs.Generate(snap)

	if docsFlags.output == "" {
		fmt.Print(doc)
		return nil
	}
	if err := os.WriteFile(docsFlags.output, []byte(doc), 0644); err != nil {
		return cli.NewCommandError("docs", err)
	}
	fmt.Printf("Documentation written to %s\n", docsFlags.output)
	return nil
}
