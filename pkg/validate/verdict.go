package validate

import (
	"fmt"
	"strings"
)

// Config is a connector configuration record: field name to value.
// Values are treated opaquely except for the normalized string comparison
// used by ALLOW rules. The validator never mutates a Config.
type Config map[string]any

// InvalidValue is one ALLOW_* finding: a present field whose value is not
// in the rule's accepted set.
type InvalidValue struct {
	// Field is the configuration field name.
	Field string `json:"field"`

	// Value is the offending value in normalized string form.
	Value string `json:"value"`

	// Allowed is the accepted set: the allow-list for ALLOW_VALUES rules,
	// or a single-element list holding the default for ALLOW_DEFAULT.
	Allowed []string `json:"allowed"`
}

// Verdict is the complete structured outcome of validating one
// configuration record. All lists preserve rule evaluation order.
type Verdict struct {
	// IsValid is true iff no rule produced a finding.
	IsValid bool `json:"is_valid"`

	// Direction is the direction the configuration was validated as.
	Direction Direction `json:"direction"`

	// MissingRequired lists fields that failed a REQUIRE rule.
	MissingRequired []string `json:"missing_required,omitempty"`

	// DisallowedPresent lists fields that failed a DISALLOW rule.
	DisallowedPresent []string `json:"disallowed_present,omitempty"`

	// InvalidValues lists fields that failed an ALLOW_* rule.
	InvalidValues []InvalidValue `json:"invalid_values,omitempty"`

	// ErrorMessages holds the rendered finding messages. Downstream
	// tooling matches these strings verbatim; the phrasing is fixed.
	ErrorMessages []string `json:"error_messages,omitempty"`

	// RuleCount is the number of rules in the effective rule set.
	RuleCount int `json:"rule_count"`
}

// Finding message templates. These strings are load-bearing: provisioning
// tooling and tests key off the exact phrasing.
const (
	msgOnlySupported     = "Only %s is supported for %s"
	msgMissingRequired   = "Missing required fields: %s"
	msgFieldsUnsupported = "The following fields are not supported: %s"
)

// finalize computes IsValid and renders the aggregate messages for the
// REQUIRE and DISALLOW findings. Per-field ALLOW_* messages have already
// been appended in evaluation order; the aggregates follow them.
func (v *Verdict) finalize() {
	if len(v.MissingRequired) > 0 {
		v.ErrorMessages = append(v.ErrorMessages,
			fmt.Sprintf(msgMissingRequired, strings.Join(v.MissingRequired, ", ")))
	}
	if len(v.DisallowedPresent) > 0 {
		v.ErrorMessages = append(v.ErrorMessages,
			fmt.Sprintf(msgFieldsUnsupported, strings.Join(v.DisallowedPresent, ", ")))
	}

	v.IsValid = len(v.MissingRequired) == 0 &&
		len(v.DisallowedPresent) == 0 &&
		len(v.ErrorMessages) == 0
}

// normalizeValue renders a configuration value in the normalized string
// form used for equality and membership comparisons.
func normalizeValue(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprintf("%v", value))
}
