package mcp

import "github.com/mark3labs/mcp-go/mcp"

var viewToolDef = mcp.NewTool("combo_view",
	mcp.WithDescription("Show the current combination, the step counter, the active filters and the filtered list."),
	mcp.WithBoolean("items",
		mcp.Description("Include the filtered list of combinations (default: true)"),
	),
	mcp.WithReadOnlyHintAnnotation(true),
)

var nextToolDef = mcp.NewTool("combo_next",
	mcp.WithDescription("Advance to the next combination. Wraps to the first after the last."),
)

var previousToolDef = mcp.NewTool("combo_previous",
	mcp.WithDescription("Go back to the previous combination. Wraps to the last before the first."),
)

var resetToolDef = mcp.NewTool("combo_reset",
	mcp.WithDescription("Start over from the first matching combination in file order."),
)

var shuffleToolDef = mcp.NewTool("combo_shuffle",
	mcp.WithDescription("Start over with the matching combinations in a new random order."),
)

var reloadToolDef = mcp.NewTool("combo_reload",
	mcp.WithDescription("Reread the combinations file and shuffle. If the file fails to parse the current list is kept and the parse error is returned."),
)

var selectToolDef = mcp.NewTool("combo_select",
	mcp.WithDescription("Jump to a combination by its position in the filtered list."),
	mcp.WithNumber("index",
		mcp.Required(),
		mcp.Description("Zero-based position in the filtered list"),
		mcp.Min(0),
	),
)

var filterToolDef = mcp.NewTool("combo_filter",
	mcp.WithDescription("Change the facet filters. Omitted facets keep their current value. The list restarts in file order."),
	mcp.WithString("distance",
		mcp.Description("Distance filter"),
		mcp.Enum("all", "long", "short"),
	),
	mcp.WithString("defence",
		mcp.Description("Only combinations with (yes) or without (no) a defensive move"),
		mcp.Enum("all", "yes", "no"),
	),
	mcp.WithString("faint",
		mcp.Description("Only combinations with (yes) or without (no) a faint"),
		mcp.Enum("all", "yes", "no"),
	),
	mcp.WithString("body",
		mcp.Description("Only combinations with (yes) or without (no) a body shot"),
		mcp.Enum("all", "yes", "no"),
	),
)

var historyToolDef = mcp.NewTool("combo_history",
	mcp.WithDescription("List recently drilled combinations, newest first, or the most drilled ones with top=true."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum rows to return (default: 20, max: 200)"),
	),
	mcp.WithNumber("offset",
		mcp.Description("Rows to skip for pagination"),
	),
	mcp.WithBoolean("top",
		mcp.Description("Group by combination and order by drill count"),
	),
	mcp.WithReadOnlyHintAnnotation(true),
)
