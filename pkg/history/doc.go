// Package history records validation verdicts for later inspection.
//
// Each validated configuration can be captured as an immutable Record and
// written asynchronously to a storage backend (in-memory or SQLite), so
// recording never blocks the validation path. A cron-driven pruner keeps
// the store within the configured age and size bounds.
package history
