// ABOUTME: MCP tool definitions and registration for the job search server
// ABOUTME: Defines JSON schemas for the search, ingest, list and delete tools
package mcp

import (
	"github.com/jobfinder/jobfinder/internal/models"
	"github.com/jobfinder/jobfinder/internal/rag"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server. Every tool call
// runs with the single configured role; the MCP surface has no per-caller
// identity, so the operator picks the role the whole connection gets.
func RegisterTools(server *mcpserver.MCPServer, engine *rag.Engine, role models.Role) *Handlers {
	handlers := &Handlers{
		engine: engine,
		role:   role,
	}

	// 1. search - Answer a question against the indexed job documents
	server.AddTool(mcp.Tool{
		Name:        "search",
		Description: "Search indexed job descriptions, resumes, and career data, and get a synthesized answer with source passages.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Question or search query about jobs, skills, or career matching",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of source passages to ground the answer on (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.Search)

	// 2. add_document - Ingest a job description or resume
	server.AddTool(mcp.Tool{
		Name:        "add_document",
		Description: "Add a job description, resume, or other career document to the search index.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source_name": map[string]interface{}{
					"type":        "string",
					"description": "Human-readable name for the document (e.g., 'backend_engineer_acme.txt')",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Full text of the document",
				},
			},
			Required: []string{"source_name", "content"},
		},
	}, handlers.AddDocument)

	// 3. list_documents - List everything currently indexed
	server.AddTool(mcp.Tool{
		Name:        "list_documents",
		Description: "List all documents currently in the search index with their IDs and sources.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListDocuments)

	// 4. delete_document - Remove a document and its index entries
	server.AddTool(mcp.Tool{
		Name:        "delete_document",
		Description: "Delete a document and all of its indexed chunks. Deleting an unknown ID succeeds as a no-op.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the document to delete, as returned by add_document or list_documents",
				},
			},
			Required: []string{"document_id"},
		},
	}, handlers.DeleteDocument)

	return handlers
}
