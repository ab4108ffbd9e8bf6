// ABOUTME: Retrieval types shared by the vector index, retriever and orchestrator
// ABOUTME: IndexEntry is the stored unit, ScoredChunk the ranked query result
package models

import (
	"errors"
	"time"
)

// IndexEntry is the vector index's stored unit, lifecycle-tied 1:1 to a chunk.
type IndexEntry struct {
	ChunkID    string    `json:"chunk_id"`
	DocumentID string    `json:"document_id"`
	SourceName string    `json:"source_name"`
	Text       string    `json:"text"`
	Vector     []float64 `json:"vector"`
}

// ValidateDimension checks the entry's vector against the expected dimension.
func (e *IndexEntry) ValidateDimension(expected int) error {
	if len(e.Vector) == 0 {
		return errors.New("index entry vector cannot be empty")
	}
	if len(e.Vector) != expected {
		return errors.New("index entry vector dimension mismatch")
	}
	return nil
}

// Query is the ephemeral retrieval request. Never persisted.
type Query struct {
	Text   string
	Vector []float64
	K      int
	Lambda float64
}

// ScoredChunk is one ranked retrieval result.
type ScoredChunk struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	SourceName string  `json:"source_name"`
	Text       string  `json:"excerpt"`
	Score      float64 `json:"score"`
}

// SearchRecord is a persisted trace of an answered query.
type SearchRecord struct {
	ID            string    `json:"id"`
	Query         string    `json:"query"`
	AnswerSummary string    `json:"answer_summary"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
}
