package mcp

import (
	"database/sql"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/combo/internal/config"
	"github.com/hpungsan/combo/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc

	// needsDB marks tools that read the practice log.
	needsDB bool
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"combo_view": {
		def:     viewToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleView },
	},
	"combo_next": {
		def:     nextToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.action(ops.ActionNext) },
	},
	"combo_previous": {
		def:     previousToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.action(ops.ActionPrevious) },
	},
	"combo_reset": {
		def:     resetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.action(ops.ActionReset) },
	},
	"combo_shuffle": {
		def:     shuffleToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.action(ops.ActionShuffle) },
	},
	"combo_reload": {
		def:     reloadToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.action(ops.ActionReload) },
	},
	"combo_select": {
		def:     selectToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSelect },
	},
	"combo_filter": {
		def:     filterToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFilter },
	},
	"combo_history": {
		def:     historyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistory },
		needsDB: true,
	},
}

// AllToolNames returns all valid tool names, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with the trainer tools registered.
// Tools listed in cfg.DisabledTools are skipped, as is combo_history
// when database is nil.
func NewServer(trainer *ops.Trainer, database *sql.DB, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"combo",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(trainer, database)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] || (entry.needsDB && database == nil) {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(trainer *ops.Trainer, database *sql.DB, cfg *config.Config, version string) error {
	s := NewServer(trainer, database, cfg, version)
	return server.ServeStdio(s)
}
