package cli

import (
	"context"
	"errors"
	"fmt"

	"perimeleon/pmexport/pkg/config"
	"perimeleon/pmexport/pkg/export"
	"perimeleon/pmexport/pkg/model"
)

// Process exit codes. Scripts running a nightly export can tell a bad
// configuration from an unreachable store from a bad record.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitConfig      = 2
	ExitConnection  = 3
	ExitRecord      = 4
	ExitWrite       = 5
	ExitInterrupted = 130
)

// ConfigError reports an unusable setting or flag.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError wraps the failure of a subcommand.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewCommandError creates a CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{Command: command, Err: err}
}

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	var (
		cfgErr  *ConfigError
		valErr  config.ValidationError
		connErr *model.ConnectionError
		recErr  *export.RecordError
		wrErr   *export.WriteError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.As(err, &cfgErr), errors.As(err, &valErr):
		return ExitConfig
	case errors.As(err, &connErr):
		return ExitConnection
	case errors.As(err, &recErr):
		return ExitRecord
	case errors.As(err, &wrErr):
		return ExitWrite
	default:
		return ExitFailure
	}
}
