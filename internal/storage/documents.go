// ABOUTME: Document persistence with transactional chunk writes
// ABOUTME: Document + chunks commit as one unit; delete is idempotent
package storage

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/jobfinder/jobfinder/internal/models"
)

// SaveDocument writes the document and all of its chunks in a single
// transaction. Either everything commits or nothing does, so a failed
// ingest leaves no orphaned rows.
func (s *Store) SaveDocument(doc *models.Document, chunks []models.Chunk) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		INSERT INTO documents (id, source_name, content, role_tag, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, doc.ID, doc.SourceName, doc.Content, doc.RoleTag, doc.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert document %s: %w", doc.ID, err)
	}

	for _, chunk := range chunks {
		if chunk.DocumentID != doc.ID {
			return fmt.Errorf("chunk %s does not belong to document %s", chunk.ChunkID(), doc.ID)
		}
		if _, err := tx.Exec(`
			INSERT INTO chunks (id, document_id, chunk_index, text, vector, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, chunk.ChunkID(), chunk.DocumentID, chunk.Index, chunk.Text, vectorToBlob(chunk.Vector), time.Now()); err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", chunk.ChunkID(), err)
		}
	}

	return tx.Commit()
}

// GetDocument retrieves a document by ID. Returns (nil, nil) when missing.
func (s *Store) GetDocument(id string) (*models.Document, error) {
	var doc models.Document
	err := s.conn.QueryRow(`
		SELECT id, source_name, content, role_tag, created_at
		FROM documents
		WHERE id = ?
	`, id).Scan(&doc.ID, &doc.SourceName, &doc.Content, &doc.RoleTag, &doc.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments returns all documents, newest first, without chunk data.
func (s *Store) ListDocuments() ([]models.Document, error) {
	rows, err := s.conn.Query(`
		SELECT id, source_name, content, role_tag, created_at
		FROM documents
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.SourceName, &doc.Content, &doc.RoleTag, &doc.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document and its chunks transactionally.
// Returns whether the document existed; deleting a missing ID is a no-op.
func (s *Store) DeleteDocument(id string) (bool, error) {
	tx, err := s.conn.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM chunks WHERE document_id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to delete chunks for %s: %w", id, err)
	}

	res, err := tx.Exec(`DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return affected > 0, nil
}

// CountChunks returns the number of stored chunks for a document.
func (s *Store) CountChunks(documentID string) (int, error) {
	var n int
	err := s.conn.QueryRow(`SELECT COUNT(*) FROM chunks WHERE document_id = ?`, documentID).Scan(&n)
	return n, err
}

// LoadIndexEntries reads every chunk joined with its document metadata,
// in document/chunk order. Used to rebuild the in-memory index projection.
func (s *Store) LoadIndexEntries() ([]models.IndexEntry, error) {
	rows, err := s.conn.Query(`
		SELECT c.id, c.document_id, d.source_name, c.text, c.vector
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		ORDER BY c.document_id, c.chunk_index
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []models.IndexEntry
	for rows.Next() {
		var (
			e    models.IndexEntry
			blob []byte
		)
		if err := rows.Scan(&e.ChunkID, &e.DocumentID, &e.SourceName, &e.Text, &blob); err != nil {
			return nil, err
		}
		e.Vector = blobToVector(blob)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// vectorToBlob converts a float64 slice to binary blob
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a binary blob to float64 slice
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}
