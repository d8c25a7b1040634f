// Package errors provides a lightweight structured error type (MetaError)
// for category-based classification in document processing and the CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a MetaError for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Document processing errors
	CategoryParse    ErrorCategory = "parse"
	CategoryVersion  ErrorCategory = "version"
	CategoryEncoding ErrorCategory = "encoding"

	// External system and infrastructure errors
	CategoryGit        ErrorCategory = "git"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error for one document, batch continues
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// MetaError is a structured error with category, severity, and context
type MetaError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for MetaError
type ContextFields map[string]any

// Error implements the error interface
func (e *MetaError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *MetaError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *MetaError) WithContext(key string, value any) *MetaError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new MetaError
func New(category ErrorCategory, severity ErrorSeverity, message string) *MetaError {
	return &MetaError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new MetaError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *MetaError {
	return &MetaError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if me, ok := err.(*MetaError); ok {
		return me.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a MetaError
func GetCategory(err error) ErrorCategory {
	if me, ok := err.(*MetaError); ok {
		return me.Category
	}
	return CategoryInternal
}
