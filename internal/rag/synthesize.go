// ABOUTME: Grounded answer synthesis from retrieved passages
// ABOUTME: Builds a budgeted context block and issues one chat completion
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/jobfinder/jobfinder/internal/models"
)

// systemPrompt frames the assistant for job/career matching. Answers must
// stay grounded in the supplied context.
const systemPrompt = `You are a professional career assistant and job matcher.
Use the provided context (job descriptions, resumes, and career data) to answer the user's question.
If the context doesn't contain the answer, say you don't have enough information in the current database to answer specifically, but offer general advice.
When matching a job to a resume, highlight the specific skills that match.`

// noContextAnswer is returned when retrieval produced nothing; an empty
// result set is an answer, never a failure.
const noContextAnswer = "I couldn't find any matches in the indexed documents for your query. Try rephrasing it, or add more job descriptions and resumes to the index."

// synthesize produces the final answer text. Passages arrive in rank
// order; when the context budget is exceeded the lowest-ranked passages
// are dropped first.
func (e *Engine) synthesize(ctx context.Context, query string, sources []models.ScoredChunk) (string, error) {
	if len(sources) == 0 {
		return noContextAnswer, nil
	}

	userPrompt := fmt.Sprintf("CONTEXT:\n%s\n\nQUESTION:\n%s\n\nProvide a detailed, professional and helpful answer grounded in the context above.",
		buildContext(sources, e.opts.ContextBudget), query)

	return e.completer.Complete(ctx, systemPrompt, userPrompt)
}

// buildContext joins passages in rank order under a rune budget. Passages
// that no longer fit are dropped entirely, except the top passage, which
// is truncated rather than lost.
func buildContext(sources []models.ScoredChunk, budget int) string {
	var b strings.Builder
	used := 0
	for i, src := range sources {
		block := fmt.Sprintf("--- Document: %s ---\n%s", src.SourceName, src.Text)
		n := len([]rune(block))
		sep := 0
		if i > 0 {
			sep = 2
		}
		if used+sep+n > budget {
			if i == 0 {
				runes := []rune(block)
				b.WriteString(string(runes[:budget]))
			}
			break
		}
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(block)
		used += sep + n
	}
	return b.String()
}
