// Package rules defines the declarative per-field validation rules for
// connector configurations and loads them from CSV rule tables.
//
// A rule table is a CSV file with one rule per row. Column names, not
// positions, determine meaning; only the name, what_to_do, default and
// valid_values columns affect validation, the remaining columns carry
// descriptive metadata used for documentation and messages.
//
// Loaded tables are grouped into an immutable Snapshot by the Registry.
// Reloading parses the new tables completely and then swaps the snapshot
// atomically, so concurrent readers always observe one consistent rule set.
package rules
