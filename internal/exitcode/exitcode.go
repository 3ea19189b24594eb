package exitcode

import (
	stderrors "errors"
	"os"

	"github.com/felixgeelhaar/waveplan/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ValidationFailed indicates malformed planner input (blank id, bad config)
	ValidationFailed = 3

	// ConfigError indicates a corrupt or incompatible persisted dependency config
	ConfigError = 4

	// Interrupted indicates the operation was cancelled by the user
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var wpErr *errors.WaveplanError
	if stderrors.As(err, &wpErr) {
		switch {
		case wpErr.IsValidation():
			return ValidationFailed
		case wpErr.IsConfig():
			return ConfigError
		case wpErr.Code == errors.ErrCodeUnknownCommand,
			wpErr.Code == errors.ErrCodeBadPayload:
			return UsageError
		}
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case ValidationFailed:
		return "Validation failed (malformed planner input)"
	case ConfigError:
		return "Dependency config error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
