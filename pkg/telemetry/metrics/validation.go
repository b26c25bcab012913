package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ValidationMetrics tracks metrics for configuration validation.
//
// Metrics:
//   - confgate_validations_total: Total validations by direction and outcome
//   - confgate_validation_duration_seconds: Validation duration
//   - confgate_findings_total: Findings by category
//   - confgate_rule_reloads_total: Rule table reloads by status
//   - confgate_rules_loaded: Number of rules in the current snapshot
type ValidationMetrics struct {
	// Total validations by direction ("source", "sink") and outcome
	// ("valid", "invalid", "undetermined")
	validationsTotal *prometheus.CounterVec

	// Validation duration histogram
	validationDuration *prometheus.HistogramVec

	// Findings by category ("missing_required", "disallowed_present",
	// "invalid_value")
	findingsTotal *prometheus.CounterVec

	// Rule table reloads by status ("success", "failure")
	reloadsTotal *prometheus.CounterVec

	// Rules in the installed snapshot
	rulesLoaded prometheus.Gauge
}

// NewValidationMetrics creates and registers validation metrics with the
// provided registry.
func NewValidationMetrics(namespace string, registry *prometheus.Registry) *ValidationMetrics {
	vm := &ValidationMetrics{
		validationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Total number of configuration validations",
			},
			[]string{"direction", "outcome"},
		),

		validationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "validation_duration_seconds",
				Help:      "Duration of configuration validation in seconds",
				// Rule evaluation is in-memory and should be fast (< 10ms)
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to 16ms
			},
			[]string{"direction"},
		),

		findingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "findings_total",
				Help:      "Total number of validation findings by category",
			},
			[]string{"category"},
		),

		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rule_reloads_total",
				Help:      "Total number of rule table reloads",
			},
			[]string{"status"},
		),

		rulesLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "rules_loaded",
				Help:      "Number of rules in the current snapshot",
			},
		),
	}

	registry.MustRegister(
		vm.validationsTotal,
		vm.validationDuration,
		vm.findingsTotal,
		vm.reloadsTotal,
		vm.rulesLoaded,
	)

	return vm
}

// RecordValidation records one validation outcome.
//
// outcome is "valid", "invalid", or "undetermined" (direction detection
// failed before evaluation).
func (vm *ValidationMetrics) RecordValidation(direction, outcome string, duration time.Duration) {
	vm.validationsTotal.WithLabelValues(direction, outcome).Inc()
	vm.validationDuration.WithLabelValues(direction).Observe(duration.Seconds())
}

// RecordFindings records the finding counts of one verdict.
func (vm *ValidationMetrics) RecordFindings(missingRequired, disallowedPresent, invalidValues int) {
	vm.findingsTotal.WithLabelValues("missing_required").Add(float64(missingRequired))
	vm.findingsTotal.WithLabelValues("disallowed_present").Add(float64(disallowedPresent))
	vm.findingsTotal.WithLabelValues("invalid_value").Add(float64(invalidValues))
}

// RecordReload records a rule table reload attempt and, on success, the
// size of the installed snapshot.
func (vm *ValidationMetrics) RecordReload(success bool, ruleCount int) {
	if success {
		vm.reloadsTotal.WithLabelValues("success").Inc()
		vm.rulesLoaded.Set(float64(ruleCount))
		return
	}
	vm.reloadsTotal.WithLabelValues("failure").Inc()
}
