package rules

import "fmt"

// SourceError indicates a rule table source could not be read.
type SourceError struct {
	Path  string
	Cause error
}

// Error returns the error message.
func (e *SourceError) Error() string {
	return fmt.Sprintf("rule source unavailable: %q: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *SourceError) Unwrap() error {
	return e.Cause
}

// MalformedRuleError indicates a rule row that cannot be parsed into a
// valid rule: an unknown action descriptor, or an ALLOW action whose
// required parameter is absent or empty.
type MalformedRuleError struct {
	// Source is the table the row came from.
	Source string

	// Row is the 1-based row number within the table (header excluded).
	Row int

	// Field is the field name column of the offending row, if present.
	Field string

	// Text is the action descriptor text that failed to parse.
	Text string

	// Reason describes what was wrong with the row.
	Reason string
}

// Error returns the error message.
func (e *MalformedRuleError) Error() string {
	return fmt.Sprintf("malformed rule in %s row %d (field %q): %s: %q",
		e.Source, e.Row, e.Field, e.Reason, e.Text)
}
