package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"dailyforge/internal/config"
	"dailyforge/internal/errors"
	"dailyforge/internal/llm"
	"dailyforge/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
	gen llm.Generator
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config, gen llm.Generator) *Handlers {
	return &Handlers{db: db, cfg: cfg, gen: gen}
}

// Request types for each tool

// GenerateRequest represents the arguments for project_generate.
type GenerateRequest struct {
	Topic     string `json:"topic,omitempty"`
	Model     string `json:"model,omitempty"`
	OutputDir string `json:"output_dir,omitempty"`
}

// ListRequest represents the arguments for project_list.
type ListRequest struct {
	Status string `json:"status,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// GetRequest represents the arguments for project_get.
type GetRequest struct {
	ID           string `json:"id,omitempty"`
	Date         string `json:"date,omitempty"`
	IncludeFiles bool   `json:"include_files,omitempty"`
}

// LatestRequest represents the arguments for project_latest.
type LatestRequest struct {
	IncludeFailed bool `json:"include_failed,omitempty"`
}

// Handler implementations

// HandleGenerate handles the project_generate tool call.
func (h *Handlers) HandleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GenerateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Generate(ctx, h.db, h.cfg, h.gen, ops.GenerateInput{
		Topic:     input.Topic,
		Model:     input.Model,
		OutputDir: input.OutputDir,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the project_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(h.db, ops.ListInput{
		Status: input.Status,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGet handles the project_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Show(h.db, ops.ShowInput{
		ID:           input.ID,
		Date:         input.Date,
		IncludeFiles: input.IncludeFiles,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleLatest handles the project_latest tool call.
func (h *Handlers) HandleLatest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LatestRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Latest(h.db, ops.LatestInput{
		IncludeFailed: input.IncludeFailed,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if fErr, ok := err.(*errors.ForgeError); ok {
		errorObj := map[string]any{
			"code":    fErr.Code,
			"message": fErr.Message,
			"status":  fErr.Status,
		}
		if fErr.Code != errors.ErrInternal && fErr.Details != nil {
			errorObj["details"] = fErr.Details
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
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
