// ABOUTME: MCP tool handler implementations for the job search server
// ABOUTME: Validates arguments, calls the engine and maps engine errors to tool errors
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jobfinder/jobfinder/internal/models"
	"github.com/jobfinder/jobfinder/internal/rag"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools.
type Handlers struct {
	engine *rag.Engine
	role   models.Role
}

// toolError formats an engine error as a tool-level error result. Engine
// failures are reported in-band; a non-nil Go error would tear down the
// protocol stream.
func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", rag.Kind(err), err))
}

// Search handles the search tool
func (h *Handlers) Search(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	maxResults := request.GetInt("max_results", 0)

	result, err := h.engine.Answer(ctx, query, maxResults, h.role)
	if err != nil {
		return toolError(err), nil
	}

	sources := make([]map[string]interface{}, 0, len(result.Sources))
	for _, src := range result.Sources {
		sources = append(sources, map[string]interface{}{
			"chunk_id":    src.ChunkID,
			"document_id": src.DocumentID,
			"source_name": src.SourceName,
			"excerpt":     src.Text,
			"score":       src.Score,
		})
	}

	response := map[string]interface{}{
		"answer":  result.Answer,
		"sources": sources,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// AddDocument handles the add_document tool
func (h *Handlers) AddDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourceName, err := request.RequireString("source_name")
	if err != nil {
		return mcp.NewToolResultError("source_name argument is required and must be a string"), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}

	docID, err := h.engine.Ingest(ctx, sourceName, content, h.role)
	if err != nil {
		return toolError(err), nil
	}

	response := map[string]interface{}{
		"document_id": docID,
		"source_name": sourceName,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ListDocuments handles the list_documents tool
func (h *Handlers) ListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := h.engine.ListDocuments(ctx, h.role)
	if err != nil {
		return toolError(err), nil
	}

	documents := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		documents = append(documents, map[string]interface{}{
			"document_id": doc.ID,
			"source_name": doc.SourceName,
			"created_at":  doc.CreatedAt.Format(time.RFC3339),
		})
	}

	response := map[string]interface{}{
		"documents": documents,
		"count":     len(documents),
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// DeleteDocument handles the delete_document tool
func (h *Handlers) DeleteDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	documentID, err := request.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError("document_id argument is required and must be a string"), nil
	}

	response := map[string]interface{}{
		"deleted":     true,
		"document_id": documentID,
	}
	if err := h.engine.Delete(ctx, documentID, h.role); err != nil {
		// A consistency violation means the delete completed and repaired
		// index drift; report success with a warning instead of failing.
		if !errors.Is(err, rag.ErrIndexConsistency) {
			return toolError(err), nil
		}
		response["warning"] = rag.Kind(err)
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}
