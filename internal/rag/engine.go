// ABOUTME: RAG engine composing chunker, embedder, index, store and synthesizer
// ABOUTME: Single orchestrator shared by the web front door and the MCP tool server
package rag

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jobfinder/jobfinder/internal/chunker"
	"github.com/jobfinder/jobfinder/internal/index"
	"github.com/jobfinder/jobfinder/internal/models"
	"github.com/jobfinder/jobfinder/internal/storage"
)

// Embedder maps text to a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Completer issues one LLM chat completion.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Options tune retrieval and synthesis.
type Options struct {
	TopK          int     // default result count for Answer
	FetchK        int     // candidate pool size before MMR selection
	Lambda        float64 // MMR relevance/diversity balance
	ContextBudget int     // grounding context budget in runes
}

// AnswerResult is the engine's response to one query.
type AnswerResult struct {
	Answer  string               `json:"answer"`
	Sources []models.ScoredChunk `json:"sources"`
}

// Engine is the RAG orchestrator. It holds no mutable state of its own
// beyond the injected index and store handles, so it is safe to share
// between concurrent request handlers and the protocol server loop.
type Engine struct {
	store     *storage.Store
	index     *index.Memory
	splitter  *chunker.Splitter
	embedder  Embedder
	completer Completer
	opts      Options
	writeLock *keyedMutex
}

// NewEngine wires the engine from its collaborators. Zero option fields
// get the retriever defaults (k=5, fetch=20, lambda=0.7).
func NewEngine(store *storage.Store, idx *index.Memory, splitter *chunker.Splitter, embedder Embedder, completer Completer, opts Options) *Engine {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if opts.FetchK < opts.TopK {
		opts.FetchK = 4 * opts.TopK
	}
	if opts.Lambda < 0 || opts.Lambda > 1 {
		opts.Lambda = 0.7
	}
	if opts.ContextBudget <= 0 {
		opts.ContextBudget = 6000
	}
	return &Engine{
		store:     store,
		index:     idx,
		splitter:  splitter,
		embedder:  embedder,
		completer: completer,
		opts:      opts,
		writeLock: newKeyedMutex(),
	}
}

// LoadProjection rebuilds the in-memory index from the document store.
// Called at startup and by Reindex; the store remains the source of truth.
func (e *Engine) LoadProjection() error {
	entries, err := e.store.LoadIndexEntries()
	if err != nil {
		return fmt.Errorf("loading index entries: %w", err)
	}
	if err := e.index.ReplaceAll(entries); err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}
	return nil
}

// Answer embeds the query, retrieves a diversified top-k via MMR and
// synthesizes a grounded answer. k <= 0 uses the configured default.
func (e *Engine) Answer(ctx context.Context, queryText string, k int, role models.Role) (*AnswerResult, error) {
	if !role.Can(models.CapSearch) {
		return nil, fmt.Errorf("%w: role %q may not search", ErrPermissionDenied, role)
	}
	if strings.TrimSpace(queryText) == "" {
		return nil, fmt.Errorf("%w: query must be non-empty", ErrValidation)
	}
	if k <= 0 {
		k = e.opts.TopK
	}

	vector, err := e.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}

	fetch := e.opts.FetchK
	if fetch < k {
		fetch = 4 * k
	}
	pool := e.index.Search(vector, fetch)
	picked := index.SelectMMR(pool, k, e.opts.Lambda)

	sources := make([]models.ScoredChunk, 0, len(picked))
	for _, c := range picked {
		sources = append(sources, models.ScoredChunk{
			ChunkID:    c.Entry.ChunkID,
			DocumentID: c.Entry.DocumentID,
			SourceName: c.Entry.SourceName,
			Text:       c.Entry.Text,
			Score:      c.Score,
		})
	}

	answer, err := e.synthesize(ctx, queryText, sources)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesisUnavailable, err)
	}

	// History is best-effort; an unwritable history table never fails a query.
	if err := e.store.RecordSearch(queryText, summarize(answer), role); err != nil {
		log.Printf("Warning: failed to record search history: %v", err)
	}

	return &AnswerResult{Answer: answer, Sources: sources}, nil
}

// Ingest validates, chunks and embeds the document, then commits document
// and chunks as one transaction before projecting them into the index.
// Any embedding failure aborts with nothing written.
func (e *Engine) Ingest(ctx context.Context, sourceName, content string, role models.Role) (string, error) {
	if !role.Can(models.CapIngest) {
		return "", fmt.Errorf("%w: role %q may not ingest documents", ErrPermissionDenied, role)
	}
	if strings.TrimSpace(sourceName) == "" {
		return "", fmt.Errorf("%w: source_name must be non-empty", ErrValidation)
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: document content must be non-empty", ErrValidation)
	}

	doc := &models.Document{
		ID:         uuid.New().String(),
		SourceName: strings.TrimSpace(sourceName),
		Content:    content,
		RoleTag:    string(role),
		CreatedAt:  time.Now(),
	}

	chunks, err := e.embedChunks(ctx, doc.ID, content)
	if err != nil {
		return "", err
	}

	unlock := e.writeLock.lock(doc.ID)
	defer unlock()

	if err := e.commit(doc, chunks); err != nil {
		return "", err
	}
	return doc.ID, nil
}

// Update replaces a document's content wholesale (delete-then-ingest under
// one lock scope) so chunk boundaries stay consistent.
func (e *Engine) Update(ctx context.Context, documentID, newContent string, role models.Role) error {
	if !role.Can(models.CapIngest) {
		return fmt.Errorf("%w: role %q may not update documents", ErrPermissionDenied, role)
	}
	if strings.TrimSpace(newContent) == "" {
		return fmt.Errorf("%w: document content must be non-empty", ErrValidation)
	}

	// Embed before taking the write lock; provider latency must not block
	// unrelated writers on this document longer than necessary.
	chunks, err := e.embedChunks(ctx, documentID, newContent)
	if err != nil {
		return err
	}

	unlock := e.writeLock.lock(documentID)
	defer unlock()

	existing, err := e.store.GetDocument(documentID)
	if err != nil {
		return fmt.Errorf("loading document %s: %w", documentID, err)
	}
	if existing == nil {
		return fmt.Errorf("%w: unknown document %s", ErrValidation, documentID)
	}

	if _, err := e.store.DeleteDocument(documentID); err != nil {
		return fmt.Errorf("replacing document %s: %w", documentID, err)
	}
	e.index.DeleteDocument(documentID)

	replacement := &models.Document{
		ID:         documentID,
		SourceName: existing.SourceName,
		Content:    newContent,
		RoleTag:    existing.RoleTag,
		CreatedAt:  time.Now(),
	}
	return e.commit(replacement, chunks)
}

// Delete removes the document and all of its index entries. Deleting a
// missing ID is a no-op success, so retries are safe.
func (e *Engine) Delete(ctx context.Context, documentID string, role models.Role) error {
	if !role.Can(models.CapDelete) {
		return fmt.Errorf("%w: role %q may not delete documents", ErrPermissionDenied, role)
	}
	if documentID == "" {
		return fmt.Errorf("%w: document_id must be non-empty", ErrValidation)
	}

	unlock := e.writeLock.lock(documentID)
	defer unlock()

	existing, err := e.store.GetDocument(documentID)
	if err != nil {
		return fmt.Errorf("loading document %s: %w", documentID, err)
	}
	if existing == nil {
		return nil
	}

	stored, err := e.store.CountChunks(documentID)
	if err != nil {
		return fmt.Errorf("counting chunks for %s: %w", documentID, err)
	}
	removed := e.index.DeleteDocument(documentID)

	if _, err := e.store.DeleteDocument(documentID); err != nil {
		return fmt.Errorf("deleting document %s: %w", documentID, err)
	}

	if removed != stored {
		// The deletion itself repaired the divergence; report it loudly.
		log.Printf("INTEGRITY: document %s had %d stored chunks but %d index entries", documentID, stored, removed)
		return fmt.Errorf("%w: document %s had %d stored chunks but %d index entries", ErrIndexConsistency, documentID, stored, removed)
	}
	return nil
}

// Reindex rebuilds the in-memory index from the document store.
func (e *Engine) Reindex(ctx context.Context, role models.Role) error {
	if !role.Can(models.CapReindex) {
		return fmt.Errorf("%w: role %q may not reindex", ErrPermissionDenied, role)
	}
	return e.LoadProjection()
}

// ListDocuments returns all stored documents, newest first.
func (e *Engine) ListDocuments(ctx context.Context, role models.Role) ([]models.Document, error) {
	if !role.Can(models.CapSearch) {
		return nil, fmt.Errorf("%w: role %q may not list documents", ErrPermissionDenied, role)
	}
	return e.store.ListDocuments()
}

// History returns recent answered queries.
func (e *Engine) History(ctx context.Context, limit int, role models.Role) ([]models.SearchRecord, error) {
	if !role.Can(models.CapSearch) {
		return nil, fmt.Errorf("%w: role %q may not read history", ErrPermissionDenied, role)
	}
	return e.store.RecentSearches(limit)
}

// embedChunks splits content and embeds every chunk. Fails as a unit: a
// chunk whose embedding fails aborts the whole batch before any write.
func (e *Engine) embedChunks(ctx context.Context, documentID, content string) ([]models.Chunk, error) {
	chunks := e.splitter.Split(documentID, content)
	for i := range chunks {
		vector, err := e.embedder.Embed(ctx, chunks[i].Text)
		if err != nil {
			return nil, fmt.Errorf("%w: chunk %d: %v", ErrEmbeddingUnavailable, i, err)
		}
		chunks[i].Vector = vector
	}
	return chunks, nil
}

// commit writes document+chunks transactionally, then projects the chunks
// into the in-memory index. Caller must hold the document's write lock.
func (e *Engine) commit(doc *models.Document, chunks []models.Chunk) error {
	if err := e.store.SaveDocument(doc, chunks); err != nil {
		return fmt.Errorf("saving document %s: %w", doc.ID, err)
	}
	for _, chunk := range chunks {
		entry := models.IndexEntry{
			ChunkID:    chunk.ChunkID(),
			DocumentID: doc.ID,
			SourceName: doc.SourceName,
			Text:       chunk.Text,
			Vector:     chunk.Vector,
		}
		if err := e.index.Upsert(entry); err != nil {
			// The store committed but the projection refused the entry;
			// roll the document back so both sides stay aligned.
			if _, delErr := e.store.DeleteDocument(doc.ID); delErr != nil {
				log.Printf("INTEGRITY: failed to roll back document %s after index error: %v", doc.ID, delErr)
			}
			e.index.DeleteDocument(doc.ID)
			return fmt.Errorf("%w: %v", ErrIndexConsistency, err)
		}
	}
	return nil
}

// summarize truncates an answer for the history table.
func summarize(answer string) string {
	const maxLen = 200
	runes := []rune(answer)
	if len(runes) <= maxLen {
		return answer
	}
	return string(runes[:maxLen-3]) + "..."
}
