package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Validation errors (VALIDATION-001 to VALIDATION-099)
	ErrCodeBlankCriterionID   ErrorCode = "VALIDATION-001"
	ErrCodeMalformedConfig    ErrorCode = "VALIDATION-002"
	ErrCodeUnknownResourceTag ErrorCode = "VALIDATION-003"
	ErrCodeUnknownDependency  ErrorCode = "VALIDATION-004"
	ErrCodeNegativeDuration   ErrorCode = "VALIDATION-005"
	ErrCodeInvalidProfile     ErrorCode = "VALIDATION-006"

	// Graph errors (GRAPH-001 to GRAPH-099)
	ErrCodeCriterionNotFound ErrorCode = "GRAPH-001"

	// Plan errors (PLAN-001 to PLAN-099)
	ErrCodePlanInvalidConcurrency ErrorCode = "PLAN-001"

	// Config errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigNotFound    ErrorCode = "CONFIG-001"
	ErrCodeConfigUnmarshal   ErrorCode = "CONFIG-002"
	ErrCodeConfigStructure   ErrorCode = "CONFIG-003"
	ErrCodeConfigWriteFailed ErrorCode = "CONFIG-004"
	ErrCodeTuningInvalid     ErrorCode = "CONFIG-005"

	// Command errors (CMD-001 to CMD-099)
	ErrCodeUnknownCommand ErrorCode = "CMD-001"
	ErrCodeBadPayload     ErrorCode = "CMD-002"
)

// WaveplanError represents an enhanced error with code, suggestions, and documentation
type WaveplanError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *WaveplanError) Error() string {
	var b strings.Builder

	// Error code and message
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	// Add cause if present
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	// Add suggestions
	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	// Add documentation link
	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *WaveplanError) Unwrap() error {
	return e.Cause
}

// New creates a new WaveplanError
func New(code ErrorCode, message string) *WaveplanError {
	return &WaveplanError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new WaveplanError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *WaveplanError {
	return &WaveplanError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *WaveplanError) WithSuggestion(suggestion string) *WaveplanError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *WaveplanError) WithSuggestions(suggestions ...string) *WaveplanError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *WaveplanError) WithDocs(url string) *WaveplanError {
	e.DocsURL = url
	return e
}

// IsValidation reports whether the error carries a VALIDATION code.
// Structural findings (cycles, missing dependencies) are validator data,
// never errors, so they have no code here.
func (e *WaveplanError) IsValidation() bool {
	return strings.HasPrefix(string(e.Code), "VALIDATION-")
}

// IsConfig reports whether the error carries a CONFIG code.
func (e *WaveplanError) IsConfig() bool {
	return strings.HasPrefix(string(e.Code), "CONFIG-")
}

// Common error constructors for frequently used errors

// NewBlankCriterionIDError creates an error for an empty criterion id
func NewBlankCriterionIDError() *WaveplanError {
	return New(ErrCodeBlankCriterionID, "criterion id must not be blank").
		WithSuggestion("Provide a non-empty id such as 'linter-validation'").
		WithSuggestion("Run 'waveplan criterion list' to see existing criteria")
}

// NewMalformedConfigError creates an error for an unparseable criterion config
func NewMalformedConfigError(id string, cause error) *WaveplanError {
	return Wrap(ErrCodeMalformedConfig, fmt.Sprintf("malformed config for criterion %s", id), cause).
		WithSuggestion("Check the config JSON syntax").
		WithSuggestion("Allowed fields: description, estimatedDuration, parallelizable, resourceRequirements, dependsOn")
}

// NewCriterionNotFoundError creates an error for a lookup of an unknown criterion
func NewCriterionNotFoundError(id string) *WaveplanError {
	return New(ErrCodeCriterionNotFound, fmt.Sprintf("criterion not found: %s", id)).
		WithSuggestion("Run 'waveplan criterion list' to see registered criteria").
		WithSuggestion(fmt.Sprintf("Add it with 'waveplan criterion add %s <config>'", id))
}

// NewConfigNotFoundError creates an error for a missing persisted config file
func NewConfigNotFoundError(path string) *WaveplanError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("dependency config not found: %s", path)).
		WithSuggestion("Run 'waveplan config save' to create one").
		WithSuggestion("Check if the file path is correct")
}

// NewConfigStructureError creates an error for a structurally invalid persisted document.
// The store is left untouched by the caller.
func NewConfigStructureError(path string, details string) *WaveplanError {
	return New(ErrCodeConfigStructure, fmt.Sprintf("invalid dependency config %s: %s", path, details)).
		WithSuggestion("The file was not applied; the in-memory graph is unchanged").
		WithSuggestion("Regenerate the file with 'waveplan config save'")
}

// NewConfigUnmarshalError creates an error for an unparseable persisted document
func NewConfigUnmarshalError(path string, cause error) *WaveplanError {
	return Wrap(ErrCodeConfigUnmarshal, fmt.Sprintf("failed to parse dependency config: %s", path), cause).
		WithSuggestion("Check the file for valid JSON").
		WithSuggestion("The in-memory graph is unchanged")
}

// NewUnknownCommandError creates an error for an unrecognized dispatch command
func NewUnknownCommandError(name string) *WaveplanError {
	return New(ErrCodeUnknownCommand, fmt.Sprintf("unknown command: %s", name)).
		WithSuggestion("Run 'waveplan help exec' to see available commands")
}
