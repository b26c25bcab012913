// Package cli provides shared helpers for confgate commands: typed errors
// and output formatting.
package cli
