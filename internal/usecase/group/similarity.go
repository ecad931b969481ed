package group

import (
	"math"
	"strings"

	"github.com/auditgen/discrepancy-engine/internal/domain"
)

// Cosine computes cosine similarity between two embedding vectors, clamped to
// [0, 1]. Mismatched or empty vectors yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if similarity < 0 {
		return 0.0
	}
	if similarity > 1 {
		return 1.0
	}
	return similarity
}

// Jaccard computes word-based Jaccard similarity between two strings
// (0.0-1.0). This is the lexical fallback for degraded findings.
func Jaccard(a, b string) float64 {
	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)

	if len(wordsA) == 0 && len(wordsB) == 0 {
		return 1.0
	}
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0.0
	}

	setA := make(map[string]bool)
	setB := make(map[string]bool)

	for _, word := range wordsA {
		setA[word] = true
	}
	for _, word := range wordsB {
		setB[word] = true
	}

	intersection := 0
	for word := range setA {
		if setB[word] {
			intersection++
		}
	}

	// Jaccard similarity: |A ∩ B| / |A ∪ B|
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}

// Similarity compares two findings: cosine over embeddings, or lexical
// overlap when either finding is degraded.
func Similarity(a, b domain.Finding) float64 {
	if a.Degraded || b.Degraded {
		return Jaccard(a.Comparable, b.Comparable)
	}
	return Cosine(a.Embedding, b.Embedding)
}
