package cli

import "fmt"

// ConfigError reports an invalid value for one confgate configuration
// field. Field uses the YAML path of the offending setting, for example
// "history.retention.prune_schedule".
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// NewConfigError creates a ConfigError for the given field path.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// CommandError wraps a failure from one confgate command so the root
// command can report which subcommand failed.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError wraps err as a failure of the named command.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{Command: command, Err: err}
}
