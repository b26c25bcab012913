package history

import (
	"time"

	"github.com/google/uuid"

	"streamhq/confgate/pkg/validate"
)

// Record is one recorded validation outcome.
type Record struct {
	// ID is the unique record identifier.
	ID string `json:"id"`

	// ConnectorName is the configuration's name field, if present.
	ConnectorName string `json:"connector_name"`

	// ConnectorClass is the configuration's connector.class field.
	ConnectorClass string `json:"connector_class"`

	// Direction is the direction the configuration was validated as.
	Direction string `json:"direction"`

	// Valid mirrors the verdict's is_valid.
	Valid bool `json:"valid"`

	// Findings, in rule evaluation order.
	MissingRequired   []string                `json:"missing_required,omitempty"`
	DisallowedPresent []string                `json:"disallowed_present,omitempty"`
	InvalidValues     []validate.InvalidValue `json:"invalid_values,omitempty"`
	ErrorMessages     []string                `json:"error_messages,omitempty"`

	// RuleCount is the size of the effective rule set that was evaluated.
	RuleCount int `json:"rule_count"`

	// Duration is how long the validation took.
	Duration time.Duration `json:"duration"`

	// ValidatedAt is when the validation ran.
	ValidatedAt time.Time `json:"validated_at"`
}

// NewRecord builds a Record from a configuration and its verdict.
func NewRecord(config validate.Config, verdict *validate.Verdict, duration time.Duration) *Record {
	return &Record{
		ID:                uuid.New().String(),
		ConnectorName:     stringField(config, "name"),
		ConnectorClass:    stringField(config, validate.ClassifierField),
		Direction:         string(verdict.Direction),
		Valid:             verdict.IsValid,
		MissingRequired:   verdict.MissingRequired,
		DisallowedPresent: verdict.DisallowedPresent,
		InvalidValues:     verdict.InvalidValues,
		ErrorMessages:     verdict.ErrorMessages,
		RuleCount:         verdict.RuleCount,
		Duration:          duration,
		ValidatedAt:       time.Now(),
	}
}

// stringField returns a config value as a string, or "" when absent or not
// a string.
func stringField(config validate.Config, name string) string {
	if s, ok := config[name].(string); ok {
		return s
	}
	return ""
}

// Query selects records from a storage backend. Zero-valued fields do not
// filter.
type Query struct {
	// Direction filters by validation direction ("source", "sink").
	Direction string

	// Valid filters by outcome when non-nil.
	Valid *bool

	// Since and Until bound ValidatedAt when non-nil.
	Since *time.Time
	Until *time.Time

	// Limit caps the number of returned records; 0 means no cap.
	Limit int
}
