// ABOUTME: In-memory vector index with cosine similarity search
// ABOUTME: A rebuildable projection of the document store, safe for concurrent use
package index

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/jobfinder/jobfinder/internal/models"
)

// Candidate is one similarity-ranked index entry.
type Candidate struct {
	Entry models.IndexEntry
	Score float64
}

// Memory is a brute-force cosine-similarity index. The document store is
// authoritative; this index can always be rebuilt from it via ReplaceAll.
type Memory struct {
	mu        sync.RWMutex
	dimension int
	entries   map[string]models.IndexEntry
}

// NewMemory creates an empty in-memory index. The vector dimension is fixed
// by the first upserted entry; the similarity metric is cosine for the
// whole index lifetime.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]models.IndexEntry)}
}

// Upsert inserts or replaces an entry keyed by chunk ID.
func (m *Memory) Upsert(entry models.IndexEntry) error {
	if entry.ChunkID == "" {
		return fmt.Errorf("index entry requires a chunk id")
	}
	if len(entry.Vector) == 0 {
		return fmt.Errorf("index entry %s has an empty vector", entry.ChunkID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dimension == 0 {
		m.dimension = len(entry.Vector)
	} else if len(entry.Vector) != m.dimension {
		return fmt.Errorf("index entry %s dimension %d does not match index dimension %d",
			entry.ChunkID, len(entry.Vector), m.dimension)
	}
	m.entries[entry.ChunkID] = entry
	return nil
}

// Delete removes an entry by chunk ID. Missing entries are a no-op.
func (m *Memory) Delete(chunkID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, chunkID)
}

// DeleteDocument removes every entry belonging to the document and returns
// how many were removed.
func (m *Memory) DeleteDocument(documentID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, e := range m.entries {
		if e.DocumentID == documentID {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}

// ReplaceAll swaps the entire index contents. Used to rebuild the
// projection from the document store.
func (m *Memory) ReplaceAll(entries []models.IndexEntry) error {
	fresh := make(map[string]models.IndexEntry, len(entries))
	dim := 0
	for _, e := range entries {
		if len(e.Vector) == 0 {
			return fmt.Errorf("index entry %s has an empty vector", e.ChunkID)
		}
		if dim == 0 {
			dim = len(e.Vector)
		} else if len(e.Vector) != dim {
			return fmt.Errorf("mixed vector dimensions during rebuild: %d and %d", dim, len(e.Vector))
		}
		fresh[e.ChunkID] = e
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = fresh
	m.dimension = dim
	return nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Search returns up to limit candidates ranked by cosine similarity to the
// query vector, ties broken by chunk ID for determinism. An empty index
// yields an empty result, never an error.
func (m *Memory) Search(vector []float64, limit int) []Candidate {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 || len(m.entries) == 0 {
		return nil
	}

	candidates := make([]Candidate, 0, len(m.entries))
	for _, e := range m.entries {
		candidates = append(candidates, Candidate{Entry: e, Score: CosineSimilarity(vector, e.Vector)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Entry.ChunkID < candidates[j].Entry.ChunkID
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// CosineSimilarity calculates cosine similarity between two vectors.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
