package errors

import "sort"

// Template defines a registered error code.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

var registry = map[string]Template{
	// Runtime (R001-R099)
	"R002": {
		Category: CategoryRuntime,
		Message:  "Render loop closed",
		Detail:   "A task was posted after the render loop stopped.",
	},
	"R003": {
		Category: CategoryRuntime,
		Message:  "Render task panicked",
		Detail:   "A render, lifecycle hook or event handler panicked while running on the render loop.",
	},

	// Protocol (P001-P099)

	"P001": {
		Category: CategoryProtocol,
		Message:  "Malformed frame",
		Detail:   "The frame header or payload could not be decoded.",
	},
	"P002": {
		Category: CategoryProtocol,
		Message:  "Unexpected frame type",
		Detail:   "The peer sent a frame type that is not valid in this direction.",
	},
	"P003": {
		Category: CategoryProtocol,
		Message:  "Frame too large",
		Detail:   "The frame payload exceeds the configured maximum.",
	},

	// Config (C001-C099)

	"C001": {
		Category: CategoryConfig,
		Message:  "Config file unreadable",
		Detail:   "The configuration file exists but could not be read or parsed.",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A configuration field holds a value outside its allowed range.",
	},
	"C003": {
		Category: CategoryConfig,
		Message:  "Unsupported config format",
		Detail:   "Only .json, .yaml and .yml configuration files are supported.",
	},

	// Live (L001-L099)

	"L001": {
		Category: CategoryLive,
		Message:  "WebSocket upgrade failed",
		Detail:   "The HTTP connection could not be upgraded to a WebSocket.",
	},
	"L002": {
		Category: CategoryLive,
		Message:  "Event target not found",
		Detail:   "The client sent an event for a node the session no longer knows.",
	},
	"L003": {
		Category: CategoryLive,
		Message:  "Session closed",
		Detail:   "The live session ended while work was still pending.",
	},
	"L004": {
		Category: CategoryLive,
		Message:  "Handshake failed",
		Detail:   "The client did not complete the session handshake.",
	},
}

// Codes returns all registered codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup returns the template for a code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or replaces a code in the registry.
func Register(code string, t Template) {
	registry[code] = t
}
