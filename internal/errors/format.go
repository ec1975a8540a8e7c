package errors

import (
	"fmt"
	"strings"
)

// Format renders the error as a multi-line human-readable report for
// CLI output.
func Format(e *RekindleError) string {
	if e == nil {
		return ""
	}

	var b strings.Builder

	if e.Code != "" {
		fmt.Fprintf(&b, "error[%s]", e.Code)
	} else {
		b.WriteString("error")
	}
	if e.Category != "" {
		fmt.Fprintf(&b, " (%s)", e.Category)
	}
	fmt.Fprintf(&b, ": %s\n", e.Message)

	if e.Path != "" {
		fmt.Fprintf(&b, "  path: %s\n", e.Path)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, "  %s\n", e.Detail)
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  caused by: %v\n", e.Wrapped)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  hint: %s\n", e.Suggestion)
	}
	if e.DocURL != "" {
		fmt.Fprintf(&b, "  see: %s\n", e.DocURL)
	}

	return b.String()
}
