// ABOUTME: Document is the authoritative record of an indexed source document
// ABOUTME: Job postings and resumes are stored here; index entries derive from it
package models

import (
	"errors"
	"strings"
	"time"
)

// Document is the source-of-truth record for an ingested document.
// The vector index is a derived projection and never decides existence.
type Document struct {
	ID         string    `json:"id"`
	SourceName string    `json:"source_name"`
	Content    string    `json:"content"`
	RoleTag    string    `json:"role_tag"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate checks the document invariants before it may be persisted.
func (d *Document) Validate() error {
	if d.ID == "" {
		return errors.New("document id is required")
	}
	if strings.TrimSpace(d.SourceName) == "" {
		return errors.New("document source_name is required")
	}
	if strings.TrimSpace(d.Content) == "" {
		return errors.New("document content must be non-empty")
	}
	return nil
}
