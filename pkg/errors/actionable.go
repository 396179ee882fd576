// Package errors turns low-level failures (ffmpeg exits, filesystem and SSH errors) into
// actionable errors: a category plus suggestions the user can act on.
//
// Basic Usage:
//
//	enricher := errors.NewEnricher()
//	enriched := enricher.Enrich(err, "/home/joe/Downloads")
//	fmt.Println(enriched.Error())
//	fmt.Println(errors.FormatSuggestions(enriched))
//
// The enricher extracts a path from the message when none is given:
//
//	err := errors.New("open /home/user/clip.mp4: permission denied")
//	enriched := enricher.Enrich(err, "") // path is /home/user/clip.mp4
package errors

import (
	stderrors "errors"
	"strings"
)

// Exported constants.
const (
	CategoryConnection ErrorCategory = "connection"
	CategoryCopy       ErrorCategory = "copy"
	CategoryDiskSpace  ErrorCategory = "disk_space"
	CategoryMedia      ErrorCategory = "media"
	CategoryPath       ErrorCategory = "path"
	CategoryPermission ErrorCategory = "permission"
	CategoryUnknown    ErrorCategory = "unknown"
)

// ActionableError represents an error with actionable suggestions for the user.
type ActionableError interface {
	error
	OriginalError() string
	Category() ErrorCategory
	Suggestions() []string
	AffectedPath() string
}

// ErrorCategory represents the type of error that occurred.
type ErrorCategory string

// NewActionableError creates a new ActionableError with the given details.
func NewActionableError(
	originalError string,
	category ErrorCategory,
	suggestions []string,
	affectedPath string,
) ActionableError {
	return &actionableError{
		originalError: originalError,
		category:      category,
		suggestions:   suggestions,
		affectedPath:  affectedPath,
	}
}

// FormatSuggestions formats the suggestions of an ActionableError as a bulleted list.
// Returns "" for nil errors and errors without suggestions.
func FormatSuggestions(err error) string {
	var actionable ActionableError
	if err == nil || !stderrors.As(err, &actionable) {
		return ""
	}

	suggestions := actionable.Suggestions()
	if len(suggestions) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, suggestion := range suggestions {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("  • ")
		builder.WriteString(suggestion)
	}

	return builder.String()
}

// actionableError is the concrete implementation of ActionableError.
type actionableError struct {
	originalError string
	category      ErrorCategory
	suggestions   []string
	affectedPath  string
	cause         error
}

// AffectedPath returns the file path affected by this error.
func (e *actionableError) AffectedPath() string {
	return e.affectedPath
}

// Category returns the error category.
func (e *actionableError) Category() ErrorCategory {
	return e.category
}

// Error implements the error interface.
func (e *actionableError) Error() string {
	return e.originalError
}

// OriginalError returns the original error message.
func (e *actionableError) OriginalError() string {
	return e.originalError
}

// Suggestions returns the list of actionable suggestions.
func (e *actionableError) Suggestions() []string {
	return e.suggestions
}

// Unwrap returns the enriched error, if any.
func (e *actionableError) Unwrap() error {
	return e.cause
}
