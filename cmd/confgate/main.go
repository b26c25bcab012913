// Confgate validates managed Kafka Connect connector configurations
// against CSV rule tables.
//
// It loads the general, source and sink rule tables, determines the
// connector direction from the configuration (or an explicit flag), and
// evaluates every applicable rule, reporting the complete set of findings.
//
// Usage:
//
//	# Validate a connector configuration
//	confgate check connector.json
//
//	# Force the direction instead of auto-detecting it
//	confgate check connector.json --direction sink
//
//	# List the effective rules for a direction
//	confgate rules --direction source
//
//	# Generate Markdown documentation for the rule tables
//	confgate docs
//
//	# Query recorded validation verdicts
//	confgate history list --direction sink --limit 20
package main

func main() {
	Execute()
}
