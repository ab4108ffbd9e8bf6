// ABOUTME: Maximal Marginal Relevance selection over a similarity-ranked pool
// ABOUTME: Balances relevance to the query against novelty among selected results
package index

import "math"

// SelectMMR picks up to k candidates from pool, maximizing
//
//	lambda*sim(c, query) - (1-lambda)*max(sim(c, selected))
//
// each round. pool must already be ranked by raw similarity (as returned by
// Memory.Search) and carries those raw scores. lambda=1 degenerates to pure
// top-k; lambda=0 maximizes diversity only. Ties prefer higher raw
// similarity to the query, then lower chunk ID.
//
// When k exceeds the pool size the whole pool is returned in similarity
// order with no MMR adjustment.
func SelectMMR(pool []Candidate, k int, lambda float64) []Candidate {
	if k <= 0 || len(pool) == 0 {
		return nil
	}
	if k > len(pool) {
		out := make([]Candidate, len(pool))
		copy(out, pool)
		return out
	}
	if lambda < 0 {
		lambda = 0
	} else if lambda > 1 {
		lambda = 1
	}

	remaining := make([]Candidate, len(pool))
	copy(remaining, pool)
	selected := make([]Candidate, 0, k)

	for len(selected) < k && len(remaining) > 0 {
		best := -1
		var bestScore float64
		for i, c := range remaining {
			score := lambda*c.Score - (1-lambda)*maxSimilarityTo(c, selected)
			if best == -1 || score > bestScore || (score == bestScore && prefer(c, remaining[best])) {
				best = i
				bestScore = score
			}
		}
		selected = append(selected, remaining[best])
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return selected
}

// maxSimilarityTo returns the highest cosine similarity between the
// candidate and any already-selected entry. Negative maxima are kept as-is:
// a candidate anti-correlated with everything selected earns a diversity
// bonus. Zero when nothing is selected yet, so the first pick is
// relevance-only.
func maxSimilarityTo(c Candidate, selected []Candidate) float64 {
	if len(selected) == 0 {
		return 0
	}
	max := math.Inf(-1)
	for _, s := range selected {
		if sim := CosineSimilarity(c.Entry.Vector, s.Entry.Vector); sim > max {
			max = sim
		}
	}
	return max
}

// prefer reports whether a wins an MMR-score tie against b: higher raw
// similarity to the query first, then lower chunk ID.
func prefer(a, b Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Entry.ChunkID < b.Entry.ChunkID
}
