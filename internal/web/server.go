// ABOUTME: HTTP front door exposing the engine as a small JSON API
// ABOUTME: Maps engine error kinds to HTTP statuses; roles come from the X-Auth-Role header
package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/jobfinder/jobfinder/internal/models"
	"github.com/jobfinder/jobfinder/internal/rag"
)

// excerptLen bounds the per-source excerpt returned to browsers.
const excerptLen = 300

// Server wraps the engine behind HTTP handlers. It owns no state of its
// own; everything is delegated to the engine.
type Server struct {
	engine *rag.Engine
	mux    *http.ServeMux
}

// NewServer builds the HTTP handler tree.
func NewServer(engine *rag.Engine) *Server {
	s := &Server{
		engine: engine,
		mux:    http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /api/search", s.handleSearch)
	s.mux.HandleFunc("POST /api/documents", s.handleAddDocument)
	s.mux.HandleFunc("GET /api/documents", s.handleListDocuments)
	s.mux.HandleFunc("PUT /api/documents/{id}", s.handleUpdateDocument)
	s.mux.HandleFunc("DELETE /api/documents/{id}", s.handleDeleteDocument)
	s.mux.HandleFunc("GET /api/history", s.handleHistory)
	s.mux.HandleFunc("POST /api/reindex", s.handleReindex)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// callerRole reads the role from the X-Auth-Role header. Absent or
// unrecognized values degrade to guest, never to an error.
func callerRole(r *http.Request) models.Role {
	return models.ParseRole(r.Header.Get("X-Auth-Role"))
}

// statusFor maps engine error kinds to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, rag.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, rag.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, rag.ErrEmbeddingUnavailable), errors.Is(err, rag.ErrSynthesisUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Warning: failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{
		"error":   rag.Kind(err),
		"message": err.Error(),
	})
}

type searchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

type sourceView struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	SourceName string  `json:"source_name"`
	Excerpt    string  `json:"excerpt"`
	Score      float64 `json:"score"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "validation_error", "message": "request body must be JSON with a query field"})
		return
	}

	result, err := s.engine.Answer(r.Context(), req.Query, req.K, callerRole(r))
	if err != nil {
		writeError(w, err)
		return
	}

	sources := make([]sourceView, 0, len(result.Sources))
	for _, src := range result.Sources {
		sources = append(sources, sourceView{
			ChunkID:    src.ChunkID,
			DocumentID: src.DocumentID,
			SourceName: src.SourceName,
			Excerpt:    truncate(src.Text, excerptLen),
			Score:      src.Score,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"answer":  result.Answer,
		"sources": sources,
	})
}

type addDocumentRequest struct {
	SourceName string `json:"source_name"`
	Content    string `json:"content"`
}

func (s *Server) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	var req addDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "validation_error", "message": "request body must be JSON with source_name and content"})
		return
	}

	docID, err := s.engine.Ingest(r.Context(), req.SourceName, req.Content, callerRole(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"document_id": docID,
		"source_name": strings.TrimSpace(req.SourceName),
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.engine.ListDocuments(r.Context(), callerRole(r))
	if err != nil {
		writeError(w, err)
		return
	}

	type docView struct {
		DocumentID string `json:"document_id"`
		SourceName string `json:"source_name"`
		CreatedAt  string `json:"created_at"`
	}
	views := make([]docView, 0, len(docs))
	for _, doc := range docs {
		views = append(views, docView{
			DocumentID: doc.ID,
			SourceName: doc.SourceName,
			CreatedAt:  doc.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"documents": views,
		"count":     len(views),
	})
}

type updateDocumentRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	var req updateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "validation_error", "message": "request body must be JSON with a content field"})
		return
	}

	docID := r.PathValue("id")
	if err := s.engine.Update(r.Context(), docID, req.Content, callerRole(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"document_id": docID})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := r.PathValue("id")
	if err := s.engine.Delete(r.Context(), docID, callerRole(r)); err != nil {
		// A consistency violation means the index had drifted; the delete
		// itself completed and repaired it, so report success with a warning.
		if !errors.Is(err, rag.ErrIndexConsistency) {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"deleted":     true,
			"document_id": docID,
			"warning":     rag.Kind(err),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deleted":     true,
		"document_id": docID,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.engine.History(r.Context(), 20, callerRole(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"searches": records,
		"count":    len(records),
	})
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Reindex(r.Context(), callerRole(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reindexed"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-3]) + "..."
}
