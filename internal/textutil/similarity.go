package textutil

import "github.com/xrash/smetrics"

// Similarity returns 1 - editDistance/maxLen over the normalized forms of a
// and b. Equal normalized strings (including two empty ones) score 1; a single
// empty side scores 0. Costs are symmetric, so Similarity(a, b) equals
// Similarity(b, a).
func Similarity(a, b string) float64 {
	return NormalizedSimilarity(Normalize(a), Normalize(b))
}

// NormalizedSimilarity is Similarity for inputs that are already normalized.
// Lengths are measured in bytes, matching the byte-wise distance.
func NormalizedSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	maxLen := max(len(a), len(b))
	distance := smetrics.WagnerFischer(a, b, 1, 1, 1)
	score := 1 - float64(distance)/float64(maxLen)
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	}
	return score
}

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	// Sorted iteration keeps the float sum stable across calls.
	var dot float64
	for _, token := range a.sortedTokens() {
		if other, ok := b.tokens[token]; ok {
			dot += a.tokens[token] * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}
