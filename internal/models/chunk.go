// ABOUTME: Chunk is a bounded-length slice of a document's text
// ABOUTME: Chunks are the unit actually embedded and indexed
package models

import "fmt"

// Chunk is a derived passage of a document. Index is strictly increasing
// per document so chunk ordering is recoverable.
type Chunk struct {
	DocumentID string    `json:"document_id"`
	Index      int       `json:"chunk_index"`
	Text       string    `json:"text"`
	Vector     []float64 `json:"vector,omitempty"`
}

// ChunkID returns the stable identifier for this chunk. The zero-padded
// index keeps lexicographic order equal to chunk order, which the
// retriever relies on for deterministic tie-breaking.
func (c Chunk) ChunkID() string {
	return ChunkID(c.DocumentID, c.Index)
}

// ChunkID builds a chunk identifier from a document ID and chunk index.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s:%04d", documentID, index)
}
