package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/combo/internal/errors"
	"github.com/hpungsan/combo/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	trainer *ops.Trainer
	db      *sql.DB
}

// NewHandlers creates a new Handlers instance. database may be nil.
func NewHandlers(trainer *ops.Trainer, database *sql.DB) *Handlers {
	return &Handlers{trainer: trainer, db: database}
}

// ViewRequest represents the arguments for combo_view.
type ViewRequest struct {
	Items *bool `json:"items,omitempty"`
}

// SelectRequest represents the arguments for combo_select.
type SelectRequest struct {
	Index *int `json:"index"`
}

// FilterRequest represents the arguments for combo_filter.
type FilterRequest struct {
	Distance *string `json:"distance,omitempty"`
	Defence  *string `json:"defence,omitempty"`
	Faint    *string `json:"faint,omitempty"`
	Body     *string `json:"body,omitempty"`
}

// HistoryRequest represents the arguments for combo_history.
type HistoryRequest struct {
	Limit  int  `json:"limit,omitempty"`
	Offset int  `json:"offset,omitempty"`
	Top    bool `json:"top,omitempty"`
}

// HandleView handles the combo_view tool call.
func (h *Handlers) HandleView(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ViewRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	view := h.trainer.View()
	if input.Items != nil && !*input.Items {
		view = view.WithoutItems()
	}
	return successResult(view)
}

// action returns a handler that runs a named trainer action. Navigation
// results leave out the list; combo_view returns it.
func (h *Handlers) action(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		view, err := h.trainer.Do(ctx, name)
		if err != nil {
			return errorResult(err), nil
		}
		return successResult(view.WithoutItems())
	}
}

// HandleSelect handles the combo_select tool call.
func (h *Handlers) HandleSelect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SelectRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Index == nil {
		return errorResult(errors.NewInvalidRequest("index is required")), nil
	}
	view, err := h.trainer.Select(ctx, ops.SelectInput{Index: *input.Index})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(view.WithoutItems())
}

// HandleFilter handles the combo_filter tool call.
func (h *Handlers) HandleFilter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FilterRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	view, err := h.trainer.Filter(ctx, ops.FilterInput{
		Distance: input.Distance,
		Defence:  input.Defence,
		Faint:    input.Faint,
		Body:     input.Body,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(view)
}

// HandleHistory handles the combo_history tool call.
func (h *Handlers) HandleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if h.db == nil {
		return errorResult(errors.NewInvalidRequest("practice log is disabled")), nil
	}
	result, err := ops.History(ctx, h.db, ops.HistoryInput{
		Limit:  input.Limit,
		Offset: input.Offset,
		Top:    input.Top,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// errorResult creates an MCP error result with structured JSON content.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if cErr := errors.As(err); cErr != nil {
		errorObj := map[string]any{
			"code":    cErr.Code,
			"message": cErr.Message,
			"status":  cErr.Status,
		}
		// Internal and I/O details can carry file paths or SQL text.
		if cErr.Code != errors.ErrInternal && cErr.Code != errors.ErrIO && cErr.Details != nil {
			errorObj["details"] = cErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(content))},
		IsError: true,
	}
}

// successResult creates an MCP success result with JSON content.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
