// ABOUTME: Splitter cuts document text into bounded-size overlapping passages
// ABOUTME: Prefers whitespace boundaries so passages stay readable for grounding
package chunker

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jobfinder/jobfinder/internal/models"
)

// Splitter splits raw document text into chunks of at most MaxLen runes,
// with Overlap runes carried from the tail of each chunk into the next.
type Splitter struct {
	maxLen  int
	overlap int
	minLen  int
}

// New creates a Splitter. Requires maxLen > overlap >= 0. minLen is the
// minimum trimmed content length that produces any chunks at all; shorter
// documents yield zero chunks and are stored unindexed.
func New(maxLen, overlap, minLen int) (*Splitter, error) {
	if maxLen <= 0 {
		return nil, fmt.Errorf("maxLen must be positive, got %d", maxLen)
	}
	if overlap < 0 || overlap >= maxLen {
		return nil, fmt.Errorf("overlap must satisfy 0 <= overlap < maxLen, got overlap=%d maxLen=%d", overlap, maxLen)
	}
	if minLen < 1 {
		minLen = 1
	}
	return &Splitter{maxLen: maxLen, overlap: overlap, minLen: minLen}, nil
}

// Split cuts text into chunks for the given document ID. Chunk indexes are
// strictly increasing from zero and together the chunk texts cover the
// trimmed content in order.
func (s *Splitter) Split(documentID, text string) []models.Chunk {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) < s.minLen {
		return nil
	}

	var chunks []models.Chunk
	start := 0
	idx := 0
	for start < len(runes) {
		end := start + s.maxLen
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = breakPoint(runes, start, end)
		}

		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			chunks = append(chunks, models.Chunk{
				DocumentID: documentID,
				Index:      idx,
				Text:       piece,
			})
			idx++
		}

		if end == len(runes) {
			break
		}
		next := end - s.overlap
		if next <= start {
			// Overlap would stall the window; move forward regardless.
			next = start + 1
		}
		start = next
	}
	return chunks
}

// breakPoint walks back from the hard cut looking for a whitespace boundary
// in the final quarter of the window, so words are not split mid-token.
func breakPoint(runes []rune, start, end int) int {
	limit := start + (end-start)*3/4
	for i := end; i > limit; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return end
}
