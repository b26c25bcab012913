package validate

import "fmt"

// UndeterminedDirectionError indicates the connector direction could not be
// detected from the classifier field and no explicit direction was given.
type UndeterminedDirectionError struct {
	// ClassifierValue is the connector.class value that matched neither
	// direction marker.
	ClassifierValue string
}

// Error returns the error message.
func (e *UndeterminedDirectionError) Error() string {
	return fmt.Sprintf("cannot determine connector direction from %s: %q (must contain %q or %q)",
		ClassifierField, e.ClassifierValue, sourceMarker, sinkMarker)
}

// InvalidDirectionError indicates an explicit direction that is neither
// source nor sink.
type InvalidDirectionError struct {
	Direction string
}

// Error returns the error message.
func (e *InvalidDirectionError) Error() string {
	return fmt.Sprintf("invalid direction %q (must be %q or %q)",
		e.Direction, DirectionSource, DirectionSink)
}
