// ABOUTME: Search history persistence
// ABOUTME: Records answered queries for the dashboard; best-effort, never blocks answers
package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/jobfinder/jobfinder/internal/models"
)

// RecordSearch stores one answered query.
func (s *Store) RecordSearch(query, answerSummary string, role models.Role) error {
	_, err := s.conn.Exec(`
		INSERT INTO search_history (id, query, answer_summary, role, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.New().String(), query, answerSummary, string(role), time.Now())
	return err
}

// RecentSearches returns up to limit history records, newest first.
func (s *Store) RecentSearches(limit int) ([]models.SearchRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.conn.Query(`
		SELECT id, query, answer_summary, role, created_at
		FROM search_history
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []models.SearchRecord
	for rows.Next() {
		var r models.SearchRecord
		if err := rows.Scan(&r.ID, &r.Query, &r.AnswerSummary, &r.Role, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
