package errors

// Registered error codes.
const (
	CodeMalformedCursor = "L001"
	CodeDuplicateKey    = "L002"
	CodeDetachedBounds  = "L003"
	CodeWriteAfterRead  = "L004"
	CodeMissingBranch   = "L005"
	CodeCircularDerived = "L006"
	CodeNotComparable   = "L007"
	CodeCascadeExceeded = "L008"
	CodeConfigInvalid   = "L020"
	CodeConfigRead      = "L021"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (L001-L007)
	// ============================================

	CodeMalformedCursor: {
		Category:   CategoryRuntime,
		Message:    "Malformed cursor",
		Suggestion: "Render into a cursor whose parent is attached, or derive cursors from nodes that have a parent.",
	},
	CodeDuplicateKey: {
		Category:   CategoryRuntime,
		Message:    "Duplicate key in keyed list",
		Suggestion: "Keys returned by an Each key function must be unique within one snapshot.",
	},
	CodeDetachedBounds: {
		Category: CategoryRuntime,
		Message:  "Bounds are not attached to a parent",
	},
	CodeWriteAfterRead: {
		Category:   CategoryRuntime,
		Message:    "Cell written after it was read in the same computation",
		Suggestion: "Move the write out of the derived computation or poll, or read the cell with Peek.",
	},
	CodeMissingBranch: {
		Category:   CategoryRuntime,
		Message:    "Choice has no branch for discriminant",
		Suggestion: "A Choice match table must cover every discriminant its value can produce.",
	},
	CodeCircularDerived: {
		Category: CategoryRuntime,
		Message:  "Circular derived value",
	},
	CodeNotComparable: {
		Category:   CategoryRuntime,
		Message:    "Renderable is not comparable",
		Suggestion: "Register pointers or other comparable values with the scheduler.",
	},

	// ============================================
	// Scheduler Errors (L008-L019)
	// ============================================

	CodeCascadeExceeded: {
		Category:   CategoryScheduler,
		Message:    "Revalidation cascade budget exceeded",
		Suggestion: "A poll keeps writing cells that schedule another batch. Check for writes that never settle.",
	},

	// ============================================
	// Config Errors (L020-L039)
	// ============================================

	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	CodeConfigRead: {
		Category: CategoryConfig,
		Message:  "Configuration file could not be read",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
