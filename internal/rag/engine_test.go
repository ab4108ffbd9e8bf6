// ABOUTME: Tests for the RAG engine orchestration
// ABOUTME: Uses a deterministic token-hash embedder and scripted completer, no network
package rag

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/jobfinder/jobfinder/internal/chunker"
	"github.com/jobfinder/jobfinder/internal/index"
	"github.com/jobfinder/jobfinder/internal/models"
	"github.com/jobfinder/jobfinder/internal/storage"
)

// hashEmbedder is a deterministic local stand-in for the embedding
// provider: token hashing into a small dense vector, L2-normalized.
// Identical input always yields the identical vector.
type hashEmbedder struct {
	mu       sync.Mutex
	calls    int
	failFrom int // fail on call number failFrom and later (1-based); 0 disables
}

func (h *hashEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	h.mu.Lock()
	h.calls++
	call := h.calls
	h.mu.Unlock()
	if h.failFrom > 0 && call >= h.failFrom {
		return nil, errors.New("simulated provider outage")
	}

	vec := make([]float64, 16)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		f := fnv.New32a()
		_, _ = f.Write([]byte(tok))
		vec[f.Sum32()%16]++
	}
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// scriptedCompleter records prompts and returns a canned answer.
type scriptedCompleter struct {
	mu      sync.Mutex
	prompts []string
	err     error
}

func (s *scriptedCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, userPrompt)
	s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	return "Based on the indexed documents, here is a match.", nil
}

func (s *scriptedCompleter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

type testRig struct {
	engine    *Engine
	store     *storage.Store
	index     *index.Memory
	embedder  *hashEmbedder
	completer *scriptedCompleter
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	splitter, err := chunker.New(120, 20, 1)
	if err != nil {
		t.Fatal(err)
	}

	rig := &testRig{
		store:     store,
		index:     index.NewMemory(),
		embedder:  &hashEmbedder{},
		completer: &scriptedCompleter{},
	}
	rig.engine = NewEngine(store, rig.index, splitter, rig.embedder, rig.completer, Options{
		TopK:   3,
		FetchK: 12,
		Lambda: 0.7,
	})
	return rig
}

func TestIngest_RoundTripRetrievability(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	content := "Senior Backend Engineer position requiring Go and distributed systems experience"
	docID, err := rig.engine.Ingest(ctx, "backend_go.txt", content, models.RoleAdmin)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if docID == "" {
		t.Fatal("Ingest returned empty document id")
	}

	result, err := rig.engine.Answer(ctx, content, 0, models.RoleUser)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	found := false
	for _, src := range result.Sources {
		if src.DocumentID == docID {
			found = true
			if src.SourceName != "backend_go.txt" {
				t.Errorf("SourceName = %q, want backend_go.txt", src.SourceName)
			}
		}
	}
	if !found {
		t.Errorf("ingested document %s not among sources: %+v", docID, result.Sources)
	}
	if result.Answer == "" {
		t.Error("Answer text is empty")
	}
}

func TestDelete_NoStaleSources(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	keepID, err := rig.engine.Ingest(ctx, "keep.txt", "Frontend Engineer JavaScript React role", models.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	dropID, err := rig.engine.Ingest(ctx, "drop.txt", "Backend Engineer Go distributed systems role", models.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	if err := rig.engine.Delete(ctx, dropID, models.RoleAdmin); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	result, err := rig.engine.Answer(ctx, "Backend Engineer Go distributed systems role", 0, models.RoleUser)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	for _, src := range result.Sources {
		if src.DocumentID == dropID {
			t.Errorf("deleted document %s still retrieved", dropID)
		}
	}
	_ = keepID
}

func TestDelete_Idempotent(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	if err := rig.engine.Delete(ctx, "never-existed", models.RoleAdmin); err != nil {
		t.Errorf("deleting unknown id should be a no-op success, got %v", err)
	}

	docID, err := rig.engine.Ingest(ctx, "doc.txt", "A job posting with enough words to index", models.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if err := rig.engine.Delete(ctx, docID, models.RoleAdmin); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := rig.engine.Delete(ctx, docID, models.RoleAdmin); err != nil {
		t.Errorf("second delete should succeed, got %v", err)
	}
}

func TestIngest_EmbeddingFailureIsAllOrNothing(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	// Long content yields multiple chunks; fail on the second embedding.
	content := strings.Repeat("backend engineer golang kafka postgres kubernetes microservices ", 20)
	rig.embedder.failFrom = 2

	_, err := rig.engine.Ingest(ctx, "fails.txt", content, models.RoleAdmin)
	if !errors.Is(err, ErrEmbeddingUnavailable) {
		t.Fatalf("err = %v, want ErrEmbeddingUnavailable", err)
	}

	docs, listErr := rig.store.ListDocuments()
	if listErr != nil {
		t.Fatal(listErr)
	}
	if len(docs) != 0 {
		t.Errorf("document persisted despite embedding failure: %d docs", len(docs))
	}
	if rig.index.Len() != 0 {
		t.Errorf("index has %d entries despite embedding failure", rig.index.Len())
	}
}

func TestAnswer_EmbeddingFailure(t *testing.T) {
	rig := newTestRig(t)
	rig.embedder.failFrom = 1

	_, err := rig.engine.Answer(context.Background(), "any query", 0, models.RoleUser)
	if !errors.Is(err, ErrEmbeddingUnavailable) {
		t.Errorf("err = %v, want ErrEmbeddingUnavailable", err)
	}
}

func TestPermissions(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	tests := []struct {
		name string
		op   func() error
	}{
		{"guest search", func() error { _, err := rig.engine.Answer(ctx, "q", 0, models.RoleGuest); return err }},
		{"guest ingest", func() error { _, err := rig.engine.Ingest(ctx, "a.txt", "content", models.RoleGuest); return err }},
		{"user ingest", func() error { _, err := rig.engine.Ingest(ctx, "a.txt", "content", models.RoleUser); return err }},
		{"user delete", func() error { return rig.engine.Delete(ctx, "id", models.RoleUser) }},
		{"user update", func() error { return rig.engine.Update(ctx, "id", "content", models.RoleUser) }},
		{"user reindex", func() error { return rig.engine.Reindex(ctx, models.RoleUser) }},
		{"guest list", func() error { _, err := rig.engine.ListDocuments(ctx, models.RoleGuest); return err }},
		{"guest history", func() error { _, err := rig.engine.History(ctx, 5, models.RoleGuest); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); !errors.Is(err, ErrPermissionDenied) {
				t.Errorf("err = %v, want ErrPermissionDenied", err)
			}
		})
	}
}

func TestAnswer_EmptyQuery(t *testing.T) {
	rig := newTestRig(t)
	_, err := rig.engine.Answer(context.Background(), "   ", 0, models.RoleUser)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestIngest_EmptyContent(t *testing.T) {
	rig := newTestRig(t)
	_, err := rig.engine.Ingest(context.Background(), "a.txt", "\n\t ", models.RoleAdmin)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestAnswer_EmptyIndexStillAnswers(t *testing.T) {
	rig := newTestRig(t)

	result, err := rig.engine.Answer(context.Background(), "devops role", 0, models.RoleUser)
	if err != nil {
		t.Fatalf("Answer on empty index: %v", err)
	}
	if len(result.Sources) != 0 {
		t.Errorf("sources = %d, want 0", len(result.Sources))
	}
	if result.Answer == "" {
		t.Error("empty retrieval must still produce an answer")
	}
	if rig.completer.callCount() != 0 {
		t.Error("no completion call expected without grounding context")
	}
}

func TestAnswer_SynthesisUnavailable(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	if _, err := rig.engine.Ingest(ctx, "a.txt", "Backend Engineer Go role", models.RoleAdmin); err != nil {
		t.Fatal(err)
	}
	rig.completer.err = errors.New("rate limited")

	_, err := rig.engine.Answer(ctx, "backend go", 0, models.RoleUser)
	if !errors.Is(err, ErrSynthesisUnavailable) {
		t.Errorf("err = %v, want ErrSynthesisUnavailable", err)
	}
}

func TestAnswer_RespectsK(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		content := fmt.Sprintf("Job posting number %d for a software engineer with skill%d", i, i)
		if _, err := rig.engine.Ingest(ctx, fmt.Sprintf("job%d.txt", i), content, models.RoleAdmin); err != nil {
			t.Fatal(err)
		}
	}

	result, err := rig.engine.Answer(ctx, "software engineer job posting", 2, models.RoleUser)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Sources) != 2 {
		t.Errorf("sources = %d, want exactly k=2", len(result.Sources))
	}
}

func TestUpdate_ReplacesWholeDocument(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	docID, err := rig.engine.Ingest(ctx, "posting.txt", "Junior QA tester manual testing", models.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	newContent := "Senior Backend Engineer Go Kubernetes"
	if err := rig.engine.Update(ctx, docID, newContent, models.RoleAdmin); err != nil {
		t.Fatalf("Update: %v", err)
	}

	doc, err := rig.store.GetDocument(docID)
	if err != nil || doc == nil {
		t.Fatalf("GetDocument after update: doc=%v err=%v", doc, err)
	}
	if doc.Content != newContent {
		t.Errorf("Content = %q, want %q", doc.Content, newContent)
	}
	if doc.SourceName != "posting.txt" {
		t.Errorf("SourceName changed on update: %q", doc.SourceName)
	}

	result, err := rig.engine.Answer(ctx, newContent, 0, models.RoleUser)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, src := range result.Sources {
		if src.DocumentID == docID && strings.Contains(src.Text, "Senior Backend Engineer") {
			found = true
		}
	}
	if !found {
		t.Errorf("updated content not retrievable: %+v", result.Sources)
	}
}

func TestUpdate_UnknownDocument(t *testing.T) {
	rig := newTestRig(t)
	err := rig.engine.Update(context.Background(), "missing-id", "new content here", models.RoleAdmin)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestReindex_RebuildsProjection(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	if _, err := rig.engine.Ingest(ctx, "a.txt", "Backend Engineer Go role in Berlin", models.RoleAdmin); err != nil {
		t.Fatal(err)
	}

	// Simulate a fresh process: same store, empty index.
	freshIndex := index.NewMemory()
	splitter, _ := chunker.New(120, 20, 1)
	fresh := NewEngine(rig.store, freshIndex, splitter, rig.embedder, rig.completer, Options{TopK: 3, FetchK: 12, Lambda: 0.7})

	if freshIndex.Len() != 0 {
		t.Fatal("fresh index should start empty")
	}
	if err := fresh.Reindex(ctx, models.RoleAdmin); err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if freshIndex.Len() == 0 {
		t.Fatal("Reindex loaded no entries")
	}

	result, err := fresh.Answer(ctx, "Backend Engineer Go role in Berlin", 0, models.RoleUser)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Sources) == 0 {
		t.Error("rebuilt projection should serve queries")
	}
}

func TestAnswer_RecordsHistory(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	if _, err := rig.engine.Answer(ctx, "remote golang jobs", 0, models.RoleUser); err != nil {
		t.Fatal(err)
	}

	records, err := rig.engine.History(ctx, 10, models.RoleUser)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("history records = %d, want 1", len(records))
	}
	if records[0].Query != "remote golang jobs" {
		t.Errorf("recorded query = %q", records[0].Query)
	}
}

func TestConcurrentIngestAndAnswer(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			content := fmt.Sprintf("Posting %d for a backend engineer role with Go", i)
			if _, err := rig.engine.Ingest(ctx, fmt.Sprintf("p%d.txt", i), content, models.RoleAdmin); err != nil {
				t.Errorf("concurrent Ingest: %v", err)
			}
		}(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := rig.engine.Answer(ctx, "backend engineer role", 0, models.RoleUser); err != nil {
				t.Errorf("concurrent Answer: %v", err)
			}
		}()
	}
	wg.Wait()

	docs, err := rig.store.ListDocuments()
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 8 {
		t.Errorf("documents = %d, want 8", len(docs))
	}
}

func TestConcurrentDeleteSameDocument(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	docID, err := rig.engine.Ingest(ctx, "contested.txt", "A posting both paths try to remove", models.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := rig.engine.Delete(ctx, docID, models.RoleAdmin); err != nil {
				t.Errorf("racing Delete: %v", err)
			}
		}()
	}
	wg.Wait()

	if doc, _ := rig.store.GetDocument(docID); doc != nil {
		t.Error("document survived racing deletes")
	}
	if rig.index.Len() != 0 {
		t.Errorf("index entries remain: %d", rig.index.Len())
	}
}
