package validate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"streamhq/confgate/pkg/rules"
	"streamhq/confgate/pkg/telemetry/metrics"
)

// Engine validates connector configurations against the rule tables
// published by a rules.Registry.
//
// An Engine is safe for concurrent use: each validation reads one immutable
// rule snapshot and allocates its own working state.
type Engine struct {
	registry *rules.Registry
	logger   *slog.Logger
	metrics  *metrics.ValidationMetrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics enables validation metrics recording.
func WithMetrics(m *metrics.ValidationMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates a validation engine backed by the given registry.
func NewEngine(registry *rules.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "validate.engine")
	return e
}

// Validate evaluates every applicable rule against the configuration and
// returns the complete verdict.
//
// direction selects the direction-specific rule table. Pass an empty
// Direction to auto-detect from the connector.class field; auto-detection
// failure returns an UndeterminedDirectionError. An invalid configuration
// is not an error: it produces a Verdict with IsValid false. Errors are
// reserved for rule-source and classification failures, which never yield
// a partial Verdict.
//
// Fields present in the configuration but absent from the effective rule
// set are not inspected; unknown fields pass by omission.
func (e *Engine) Validate(ctx context.Context, config Config, direction Direction) (*Verdict, error) {
	start := time.Now()

	snap, err := e.registry.Snapshot()
	if err != nil {
		return nil, err
	}

	switch direction {
	case DirectionSource, DirectionSink:
		// explicit direction always wins
	case "":
		direction, err = DetectDirection(config)
		if err != nil {
			e.observe(direction, "undetermined", time.Since(start))
			return nil, err
		}
	default:
		return nil, &InvalidDirectionError{Direction: string(direction)}
	}

	set := Resolve(snap, direction)
	verdict := evaluate(set, config)
	verdict.Direction = direction

	outcome := "valid"
	if !verdict.IsValid {
		outcome = "invalid"
	}
	e.observe(direction, outcome, time.Since(start))

	if e.metrics != nil {
		e.metrics.RecordFindings(
			len(verdict.MissingRequired),
			len(verdict.DisallowedPresent),
			len(verdict.InvalidValues),
		)
	}

	e.logger.DebugContext(ctx, "configuration validated",
		"direction", direction,
		"rule_count", verdict.RuleCount,
		"is_valid", verdict.IsValid,
		"findings", len(verdict.ErrorMessages),
	)

	return verdict, nil
}

// observe records one validation outcome, if metrics are enabled.
func (e *Engine) observe(direction Direction, outcome string, elapsed time.Duration) {
	if e.metrics != nil {
		e.metrics.RecordValidation(string(direction), outcome, elapsed)
	}
}

// evaluate runs the rule-driven evaluation loop. It never short-circuits:
// every rule is evaluated so the verdict carries the complete set of
// findings in one pass.
func evaluate(set *RuleSet, config Config) *Verdict {
	verdict := &Verdict{RuleCount: set.Len()}

	for _, rule := range set.Rules() {
		value, exists := config[rule.Name]
		present := exists && value != nil

		switch rule.Action {
		case rules.ActionRequire:
			if !present {
				verdict.MissingRequired = append(verdict.MissingRequired, rule.Name)
			}

		case rules.ActionDisallow:
			if present {
				verdict.DisallowedPresent = append(verdict.DisallowedPresent, rule.Name)
			}

		case rules.ActionAllowDefault:
			if !present {
				break
			}
			if got := normalizeValue(value); got != rule.DefaultValue {
				verdict.InvalidValues = append(verdict.InvalidValues, InvalidValue{
					Field:   rule.Name,
					Value:   got,
					Allowed: []string{rule.DefaultValue},
				})
				verdict.ErrorMessages = append(verdict.ErrorMessages,
					fmt.Sprintf(msgOnlySupported, rule.DefaultValue, rule.Name))
			}

		case rules.ActionAllowValues:
			if !present {
				break
			}
			got := normalizeValue(value)
			if !contains(rule.AllowedValues, got) {
				verdict.InvalidValues = append(verdict.InvalidValues, InvalidValue{
					Field:   rule.Name,
					Value:   got,
					Allowed: rule.AllowedValues,
				})
				verdict.ErrorMessages = append(verdict.ErrorMessages,
					fmt.Sprintf(msgOnlySupported, strings.Join(rule.AllowedValues, ", "), rule.Name))
			}

		case rules.ActionIgnore:
			// always passes
		}
	}

	verdict.finalize()
	return verdict
}

// contains reports whether values includes v.
func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
