package rules

import "time"

// Action is the validation action a rule applies to its field.
type Action string

const (
	// ActionRequire requires the field to be present.
	ActionRequire Action = "REQUIRE"

	// ActionIgnore accepts the field regardless of presence or value.
	ActionIgnore Action = "IGNORE"

	// ActionDisallow rejects the field whenever it is present.
	ActionDisallow Action = "DISALLOW"

	// ActionAllowDefault accepts the field only with its declared default value.
	ActionAllowDefault Action = "ALLOW_DEFAULT"

	// ActionAllowValues accepts the field only with one of the listed values.
	ActionAllowValues Action = "ALLOW_VALUES"
)

// Rule is a declarative constraint on one configuration field.
//
// The loader guarantees the action invariants: an ActionAllowDefault rule
// always has a non-empty DefaultValue, and an ActionAllowValues rule always
// has a non-empty AllowedValues list.
type Rule struct {
	// Name is the configuration field this rule governs.
	Name string

	// Action is the validation action for the field.
	Action Action

	// DefaultValue is the only accepted value for ActionAllowDefault rules.
	DefaultValue string

	// AllowedValues is the ordered list of accepted values for
	// ActionAllowValues rules. Order is preserved for message rendering.
	AllowedValues []string

	// Descriptive metadata, carried through unvalidated. It has no effect
	// on validation and exists for documentation and message generation.
	Subsection string
	Definition string
	Type       string
	Importance string
}

// Table is an ordered collection of rules loaded from one tabular source.
// Row order is preserved so that findings are reported deterministically.
type Table struct {
	// Source identifies where the table was loaded from (file path or a
	// logical name such as "general").
	Source string

	// Rules holds the rules in row order.
	Rules []Rule
}

// Snapshot is one immutable, consistent view of all loaded rule tables.
// Snapshots are never mutated after creation and are safe for concurrent use.
type Snapshot struct {
	// General holds the rules that apply to every connector.
	General Table

	// Source holds the rules for source connectors.
	Source Table

	// Sink holds the rules for sink connectors.
	Sink Table

	// LoadedAt is when this snapshot was installed.
	LoadedAt time.Time
}

// RuleCount returns the total number of rules across all tables.
func (s *Snapshot) RuleCount() int {
	return len(s.General.Rules) + len(s.Source.Rules) + len(s.Sink.Rules)
}
