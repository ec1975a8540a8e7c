package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Annotator Errors (E001-E099)
	// ============================================

	"E001": {
		Category: CategoryAnnotate,
		Message:  "Unserializable node kind",
		Detail:   "The rendered tree contains a node kind the annotator does not know. The tree was not produced by a supported renderer.",
		DocURL:   "https://rekindle.dev/docs/errors/E001",
	},
	"E002": {
		Category: CategoryAnnotate,
		Message:  "Annotation write failed",
		Detail:   "Writing the annotated markup to the output stream failed.",
		DocURL:   "https://rekindle.dev/docs/errors/E002",
	},

	// ============================================
	// Hydration Errors (E101-E199)
	// ============================================

	"E101": {
		Category: CategoryHydrate,
		Message:  "Structural mismatch",
		Detail:   "A marker references a path with no corresponding node. The server and client component trees disagree, usually due to a non-deterministic render or version skew between server and client bundles. The affected subtree falls back to a fresh client render.",
		DocURL:   "https://rekindle.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategoryHydrate,
		Message:  "Unresolved slot relocation",
		Detail:   "An original-location marker could not be paired with a slot position. The affected subtree falls back to a fresh client render.",
		DocURL:   "https://rekindle.dev/docs/errors/E102",
	},
	"E103": {
		Category: CategoryHydrate,
		Message:  "Unknown host tag",
		Detail:   "A host element's tag name is not in the component definition registry, so its encapsulation mode is unknown.",
		DocURL:   "https://rekindle.dev/docs/errors/E103",
	},

	// ============================================
	// Protocol Errors (E201-E299)
	// ============================================

	"E201": {
		Category: CategoryProtocol,
		Message:  "Malformed marker",
		Detail:   "A comment node looked like an annotation marker but violates the marker grammar.",
		DocURL:   "https://rekindle.dev/docs/errors/E201",
	},

	// ============================================
	// Config Errors (E301-E399)
	// ============================================

	"E301": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No rekindle.json was found in the project directory.",
		DocURL:   "https://rekindle.dev/docs/errors/E301",
	},
	"E302": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "rekindle.json exists but could not be parsed or contains invalid values.",
		DocURL:   "https://rekindle.dev/docs/errors/E302",
	},

	// ============================================
	// Server Errors (E401-E499)
	// ============================================

	"E401": {
		Category: CategoryServer,
		Message:  "Page render failed",
		Detail:   "The page's render function returned an error; the annotator was not run.",
		DocURL:   "https://rekindle.dev/docs/errors/E401",
	},

	// ============================================
	// CLI Errors (E501-E599)
	// ============================================

	"E501": {
		Category: CategoryCLI,
		Message:  "Input file not readable",
		Detail:   "The markup file passed to the command could not be opened or read.",
		DocURL:   "https://rekindle.dev/docs/errors/E501",
	},
}

// Lookup returns the template for a code, for tooling that lists
// registered errors.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
