// Package ops exposes the trainer operations shared by the CLI, the web UI
// and the MCP server. Outputs are JSON-ready.
package ops

// Pagination limits
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Action names accepted by Trainer.Do.
const (
	ActionNext     = "next"
	ActionPrevious = "previous"
	ActionReset    = "reset"
	ActionShuffle  = "shuffle"
	ActionReload   = "reload"
	ActionSelect   = "select"
)

// Actions lists the names Do accepts, in display order.
var Actions = []string{ActionNext, ActionPrevious, ActionReset, ActionShuffle, ActionReload}

// clampLimit applies default and max bounds to a page size.
func clampLimit(limit, def, maxLimit int) int {
	if limit <= 0 {
		return def
	}
	return min(limit, maxLimit)
}
