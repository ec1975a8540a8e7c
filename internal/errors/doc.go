// Package errors provides structured, actionable error messages for
// Rekindle.
//
// # Error Categories
//
// Errors are organized into categories:
//   - annotate: server annotator failures (unserializable trees)
//   - hydrate: server/client mismatch diagnostics
//   - protocol: marker grammar violations
//   - config: configuration file errors
//   - server: page server errors
//   - cli: command-line tool errors
//
// # Error Codes
//
// Each registered error has a unique code (e.g., "E101") that maps to a
// short message, a detailed explanation, and a documentation URL.
//
// # Usage
//
//	err := errors.New("E101").
//	    WithPath("1.0.2").
//	    WithSuggestion("Re-render the page with matching server and client bundles")
package errors
