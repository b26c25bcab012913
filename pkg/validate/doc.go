// Package validate evaluates connector configurations against the loaded
// rule tables and produces structured verdicts.
//
// Validation is rule-driven, not field-driven: the engine walks every rule
// in the effective rule set and classifies the corresponding configuration
// field. Configuration fields that no rule mentions are never inspected;
// unknown fields pass by omission. This mirrors the managed-connector
// validation behavior the rule tables were written against.
//
// Engineering failures (unreadable rule tables, malformed rules, an
// undeterminable direction) surface as errors. A configuration that merely
// violates rules is not an error: it yields a Verdict with IsValid false
// and the complete set of findings.
package validate
