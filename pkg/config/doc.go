// Package config defines the confgate configuration model and loads it
// from YAML files with environment variable overrides.
//
// The loading sequence is: parse YAML, apply defaults, apply CONFGATE_*
// environment overrides, validate. Environment variables always take
// precedence over file-based configuration.
package config
