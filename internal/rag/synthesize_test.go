// ABOUTME: Tests for context assembly under the rune budget
// ABOUTME: Lowest-ranked passages drop first; the top passage truncates instead of vanishing
package rag

import (
	"strings"
	"testing"

	"github.com/jobfinder/jobfinder/internal/models"
)

func scored(source, text string) models.ScoredChunk {
	return models.ScoredChunk{SourceName: source, Text: text}
}

func TestBuildContext_AllFit(t *testing.T) {
	sources := []models.ScoredChunk{
		scored("a.txt", "first passage"),
		scored("b.txt", "second passage"),
	}
	got := buildContext(sources, 10000)

	if !strings.Contains(got, "--- Document: a.txt ---\nfirst passage") {
		t.Errorf("missing first block:\n%s", got)
	}
	if !strings.Contains(got, "--- Document: b.txt ---\nsecond passage") {
		t.Errorf("missing second block:\n%s", got)
	}
	if strings.Index(got, "a.txt") > strings.Index(got, "b.txt") {
		t.Error("blocks must keep rank order")
	}
}

func TestBuildContext_DropsLowestRankedFirst(t *testing.T) {
	top := scored("top.txt", strings.Repeat("x", 100))
	low := scored("low.txt", strings.Repeat("y", 100))

	// Budget fits the first block but not both.
	got := buildContext([]models.ScoredChunk{top, low}, 150)

	if !strings.Contains(got, "top.txt") {
		t.Error("top-ranked passage was dropped")
	}
	if strings.Contains(got, "low.txt") {
		t.Error("lower-ranked passage should be dropped, not the top one")
	}
}

func TestBuildContext_TruncatesOversizedTopPassage(t *testing.T) {
	huge := scored("huge.txt", strings.Repeat("z", 500))

	got := buildContext([]models.ScoredChunk{huge}, 60)

	if n := len([]rune(got)); n != 60 {
		t.Errorf("context length = %d runes, want exactly the budget 60", n)
	}
	if !strings.HasPrefix(got, "--- Document: huge.txt ---") {
		t.Errorf("truncation should keep the block header:\n%s", got)
	}
}

func TestBuildContext_SeparatorCountsAgainstBudget(t *testing.T) {
	top := scored("top.txt", strings.Repeat("x", 100))
	low := scored("low.txt", strings.Repeat("y", 100))

	// Each block is 126 runes. A budget of 253 fits both blocks but not
	// the joining separator, so the second passage must be dropped.
	budget := 253
	got := buildContext([]models.ScoredChunk{top, low}, budget)

	if n := len([]rune(got)); n > budget {
		t.Errorf("context length = %d runes, exceeds budget %d", n, budget)
	}
	if strings.Contains(got, "low.txt") {
		t.Error("second passage should be dropped when the separator overflows the budget")
	}

	// One more rune of budget fits both blocks plus the separator.
	got = buildContext([]models.ScoredChunk{top, low}, budget+1)
	if !strings.Contains(got, "low.txt") {
		t.Error("second passage should fit once the separator is within budget")
	}
	if n := len([]rune(got)); n != budget+1 {
		t.Errorf("context length = %d runes, want exactly %d", n, budget+1)
	}
}

func TestBuildContext_Empty(t *testing.T) {
	if got := buildContext(nil, 1000); got != "" {
		t.Errorf("empty sources should yield empty context, got %q", got)
	}
}
