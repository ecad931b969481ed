package group_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/auditgen/discrepancy-engine/internal/domain"
	"github.com/auditgen/discrepancy-engine/internal/usecase/group"
)

func TestCosine(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		assert.InDelta(t, 1.0, group.Cosine([]float32{3, 4}, []float32{3, 4}), 1e-9)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		assert.Equal(t, 0.0, group.Cosine([]float32{1, 0}, []float32{0, 1}))
	})

	t.Run("negative similarity clamps to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, group.Cosine([]float32{1, 0}, []float32{-1, 0}))
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		assert.Equal(t, 0.0, group.Cosine([]float32{1, 0, 0}, []float32{1, 0}))
	})

	t.Run("empty vectors", func(t *testing.T) {
		assert.Equal(t, 0.0, group.Cosine(nil, nil))
	})

	t.Run("zero norm", func(t *testing.T) {
		assert.Equal(t, 0.0, group.Cosine([]float32{0, 0}, []float32{1, 1}))
	})
}

func TestJaccard(t *testing.T) {
	t.Run("partial overlap", func(t *testing.T) {
		assert.InDelta(t, 0.5, group.Jaccard("access review control", "access review policy gap"), 1e-9)
	})

	t.Run("identical text", func(t *testing.T) {
		assert.Equal(t, 1.0, group.Jaccard("segregation of duties", "segregation of duties"))
	})

	t.Run("no overlap", func(t *testing.T) {
		assert.Equal(t, 0.0, group.Jaccard("alpha beta", "gamma delta"))
	})

	t.Run("both empty", func(t *testing.T) {
		assert.Equal(t, 1.0, group.Jaccard("", "  "))
	})

	t.Run("one empty", func(t *testing.T) {
		assert.Equal(t, 0.0, group.Jaccard("", "alpha"))
	})

	t.Run("duplicate words collapse", func(t *testing.T) {
		assert.Equal(t, 1.0, group.Jaccard("alpha alpha beta", "beta alpha"))
	})
}

func TestSimilarity(t *testing.T) {
	embedded := func(id string, vec []float32) domain.Finding {
		return domain.Finding{FindingID: id, Comparable: "shared words here", Embedding: vec}
	}

	t.Run("uses cosine when both embedded", func(t *testing.T) {
		a := embedded("A-001", []float32{1, 0})
		b := embedded("B-001", []float32{0, 1})
		assert.Equal(t, 0.0, group.Similarity(a, b))
	})

	t.Run("falls back to lexical overlap when either is degraded", func(t *testing.T) {
		a := domain.Finding{FindingID: "A-001", Comparable: "shared words here", Degraded: true}
		b := embedded("B-001", []float32{1, 0})
		assert.Equal(t, 1.0, group.Similarity(a, b))
		assert.Equal(t, 1.0, group.Similarity(b, a))
	})
}
