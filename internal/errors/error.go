package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryAnnotate Category = "annotate"
	CategoryHydrate  Category = "hydrate"
	CategoryProtocol Category = "protocol"
	CategoryConfig   Category = "config"
	CategoryServer   Category = "server"
	CategoryCLI      Category = "cli"
)

// RekindleError is a structured error with a code, category, and
// optional hydration path context.
type RekindleError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type (annotate, hydrate, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Path is the hydration path the error refers to, when known.
	Path string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RekindleError) Error() string {
	switch {
	case e.Code != "" && e.Path != "":
		return fmt.Sprintf("%s: %s (path %s)", e.Code, e.Message, e.Path)
	case e.Code != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	default:
		return e.Message
	}
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RekindleError) Unwrap() error {
	return e.Wrapped
}

// WithPath adds hydration path context to the error.
func (e *RekindleError) WithPath(path string) *RekindleError {
	e.Path = path
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RekindleError) WithSuggestion(s string) *RekindleError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *RekindleError) WithDetail(d string) *RekindleError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *RekindleError) Wrap(err error) *RekindleError {
	e.Wrapped = err
	return e
}

// New creates a RekindleError from a registered error code.
func New(code string) *RekindleError {
	template, ok := registry[code]
	if !ok {
		return &RekindleError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RekindleError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new RekindleError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *RekindleError {
	return &RekindleError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a RekindleError.
func FromError(err error, code string) *RekindleError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RekindleError); ok {
		return re
	}
	return New(code).Wrap(err)
}
