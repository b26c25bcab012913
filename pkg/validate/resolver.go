package validate

import (
	"strings"

	"streamhq/confgate/pkg/rules"
)

// Direction is the data-flow role of a connector.
type Direction string

const (
	// DirectionSource identifies connectors that read from an external
	// system into Kafka.
	DirectionSource Direction = "source"

	// DirectionSink identifies connectors that write from Kafka into an
	// external system.
	DirectionSink Direction = "sink"
)

// ClassifierField is the configuration field inspected to auto-detect the
// connector direction.
const ClassifierField = "connector.class"

// Direction markers matched as substrings of the classifier value.
// Matching is case-sensitive: connector class names use the conventional
// Source/Sink suffixes (e.g. "MongoDbAtlasSink").
const (
	sourceMarker = "Source"
	sinkMarker   = "Sink"
)

// ParseDirection parses an explicit direction string.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionSource:
		return DirectionSource, nil
	case DirectionSink:
		return DirectionSink, nil
	default:
		return "", &InvalidDirectionError{Direction: s}
	}
}

// DetectDirection inspects the classifier field of a configuration and
// returns the direction its value indicates. Auto-detection is a
// convenience fallback; callers that know the direction should pass it
// explicitly to Engine.Validate instead.
func DetectDirection(config Config) (Direction, error) {
	class := normalizeValue(config[ClassifierField])
	if strings.Contains(class, sourceMarker) {
		return DirectionSource, nil
	}
	if strings.Contains(class, sinkMarker) {
		return DirectionSink, nil
	}
	return "", &UndeterminedDirectionError{ClassifierValue: class}
}

// RuleSet is the effective rule set for one validation: the general table
// merged with one direction-specific table, one rule per field name.
//
// Iteration order is the general table's row order followed by the
// direction table's additions in their row order. When both tables define
// a rule for the same field, the direction table's rule replaces the
// general one entirely but keeps the general table's position, so message
// ordering stays stable.
type RuleSet struct {
	names  []string
	byName map[string]rules.Rule
}

// Resolve merges the snapshot's general table with the table for the given
// direction into one effective rule set.
func Resolve(snap *rules.Snapshot, direction Direction) *RuleSet {
	set := &RuleSet{byName: make(map[string]rules.Rule)}

	set.merge(snap.General)
	switch direction {
	case DirectionSource:
		set.merge(snap.Source)
	case DirectionSink:
		set.merge(snap.Sink)
	}

	return set
}

// merge overlays a table onto the set; later rules win whole on collision.
func (s *RuleSet) merge(table rules.Table) {
	for _, r := range table.Rules {
		if _, exists := s.byName[r.Name]; !exists {
			s.names = append(s.names, r.Name)
		}
		s.byName[r.Name] = r
	}
}

// Len returns the number of rules in the set.
func (s *RuleSet) Len() int {
	return len(s.names)
}

// Rules returns the rules in evaluation order.
func (s *RuleSet) Rules() []rules.Rule {
	out := make([]rules.Rule, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.byName[name])
	}
	return out
}

// Lookup returns the rule for a field name, if any.
func (s *RuleSet) Lookup(name string) (rules.Rule, bool) {
	r, ok := s.byName[name]
	return r, ok
}
