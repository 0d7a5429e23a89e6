package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Routing Errors (NAV100-NAV199)
	// ============================================

	"NAV101": {
		Category: CategoryRouting,
		Message:  "Duplicate route name",
	},
	"NAV102": {
		Category: CategoryPattern,
		Message:  "Invalid path pattern",
	},
	"NAV103": {
		Category: CategoryRouting,
		Message:  "Route not found",
	},
	"NAV104": {
		Category: CategoryRouting,
		Message:  "Unknown parent route",
	},
	"NAV105": {
		Category: CategoryPattern,
		Message:  "Missing path parameter",
	},

	// ============================================
	// Config Errors (NAV200-NAV299)
	// ============================================

	"NAV201": {
		Category: CategoryConfig,
		Message:  "Route definition file not found",
	},
	"NAV202": {
		Category: CategoryConfig,
		Message:  "Invalid route definition file",
	},
	"NAV203": {
		Category: CategoryConfig,
		Message:  "Route definition failed validation",
	},
	"NAV204": {
		Category: CategoryConfig,
		Message:  "Failed to fetch remote route definitions",
	},

	// ============================================
	// CLI Errors (NAV300-NAV399)
	// ============================================

	"NAV301": {
		Category: CategoryCLI,
		Message:  "Invalid attribute argument",
		Detail:   "Attributes are passed as key=value pairs.",
	},
	"NAV399": {
		Category: CategoryCLI,
		Message:  "Command failed",
	},
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
