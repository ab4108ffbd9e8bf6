// ABOUTME: Tests for the in-memory vector index
// ABOUTME: Verifies upsert/delete semantics, dimension pinning and ranked search
package index

import (
	"fmt"
	"testing"

	"github.com/jobfinder/jobfinder/internal/models"
)

func entry(chunkID, docID string, vector ...float64) models.IndexEntry {
	return models.IndexEntry{
		ChunkID:    chunkID,
		DocumentID: docID,
		SourceName: docID + ".txt",
		Text:       "text for " + chunkID,
		Vector:     vector,
	}
}

func TestMemory_UpsertAndSearch(t *testing.T) {
	m := NewMemory()

	if err := m.Upsert(entry("a:0000", "a", 1, 0, 0)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := m.Upsert(entry("b:0000", "b", 0, 1, 0)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := m.Upsert(entry("c:0000", "c", 0.9, 0.1, 0)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	results := m.Search([]float64{1, 0, 0}, 2)
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Entry.ChunkID != "a:0000" {
		t.Errorf("top result = %s, want a:0000", results[0].Entry.ChunkID)
	}
	if results[1].Entry.ChunkID != "c:0000" {
		t.Errorf("second result = %s, want c:0000", results[1].Entry.ChunkID)
	}
	if results[0].Score < results[1].Score {
		t.Error("results not ranked by descending similarity")
	}
}

func TestMemory_EmptySearch(t *testing.T) {
	m := NewMemory()
	if results := m.Search([]float64{1, 0}, 5); len(results) != 0 {
		t.Errorf("empty index should return empty result, got %d", len(results))
	}
}

func TestMemory_DimensionPinned(t *testing.T) {
	m := NewMemory()
	if err := m.Upsert(entry("a:0000", "a", 1, 0, 0)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := m.Upsert(entry("b:0000", "b", 1, 0)); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestMemory_UpsertReplaces(t *testing.T) {
	m := NewMemory()
	if err := m.Upsert(entry("a:0000", "a", 1, 0)); err != nil {
		t.Fatal(err)
	}
	if err := m.Upsert(entry("a:0000", "a", 0, 1)); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1 after replacing upsert", m.Len())
	}

	results := m.Search([]float64{0, 1}, 1)
	if len(results) != 1 || results[0].Score < 0.99 {
		t.Error("replaced vector should match the new direction")
	}
}

func TestMemory_DeleteDocument(t *testing.T) {
	m := NewMemory()
	for i := 0; i < 3; i++ {
		if err := m.Upsert(entry(models.ChunkID("doc-a", i), "doc-a", 1, float64(i))); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Upsert(entry("doc-b:0000", "doc-b", 0, 1)); err != nil {
		t.Fatal(err)
	}

	removed := m.DeleteDocument("doc-a")
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
	if again := m.DeleteDocument("doc-a"); again != 0 {
		t.Errorf("second delete removed %d, want 0", again)
	}
}

func TestMemory_Delete(t *testing.T) {
	m := NewMemory()
	if err := m.Upsert(entry("a:0000", "a", 1, 0)); err != nil {
		t.Fatal(err)
	}
	m.Delete("a:0000")
	m.Delete("missing") // no-op
	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.Len())
	}
}

func TestMemory_ReplaceAll(t *testing.T) {
	m := NewMemory()
	if err := m.Upsert(entry("old:0000", "old", 1, 0)); err != nil {
		t.Fatal(err)
	}

	fresh := []models.IndexEntry{
		entry("new:0000", "new", 0, 1, 0),
		entry("new:0001", "new", 1, 0, 0),
	}
	if err := m.ReplaceAll(fresh); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
	if results := m.Search([]float64{1, 0}, 5); len(results) != 0 {
		// Old 2-dimensional query no longer matches the rebuilt 3D index.
		for _, r := range results {
			if r.Score != 0 {
				t.Errorf("unexpected nonzero score %f for mismatched dimension", r.Score)
			}
		}
	}

	if err := m.ReplaceAll([]models.IndexEntry{entry("x:0000", "x", 1), entry("y:0000", "y", 1, 2)}); err == nil {
		t.Error("expected mixed-dimension rebuild to fail")
	}
}

func TestMemory_SearchTieBreak(t *testing.T) {
	m := NewMemory()
	// Identical vectors: order must be deterministic by chunk ID.
	for _, id := range []string{"z:0000", "a:0000", "m:0000"} {
		if err := m.Upsert(entry(id, id[:1], 1, 1)); err != nil {
			t.Fatal(err)
		}
	}
	results := m.Search([]float64{1, 1}, 3)
	want := []string{"a:0000", "m:0000", "z:0000"}
	for i, w := range want {
		if results[i].Entry.ChunkID != w {
			t.Errorf("result[%d] = %s, want %s", i, results[i].Entry.ChunkID, w)
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1.0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0.0},
		{"length mismatch", []float64{1, 0}, []float64{1, 0, 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("CosineSimilarity = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestMemory_LargePool(t *testing.T) {
	m := NewMemory()
	for i := 0; i < 100; i++ {
		id := fmt.Sprintf("doc-%02d", i)
		if err := m.Upsert(entry(models.ChunkID(id, 0), id, float64(i), 1)); err != nil {
			t.Fatal(err)
		}
	}
	results := m.Search([]float64{1, 0}, 10)
	if len(results) != 10 {
		t.Fatalf("results = %d, want 10", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Fatal("results not sorted by descending score")
		}
	}
}
