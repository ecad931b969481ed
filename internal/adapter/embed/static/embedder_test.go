package static_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditgen/discrepancy-engine/internal/adapter/embed/static"
)

func TestEmbed_Deterministic(t *testing.T) {
	e := static.NewEmbedder(16)
	ctx := context.Background()

	first, err := e.Embed(ctx, "access reviews not performed")
	require.NoError(t, err)
	second, err := e.Embed(ctx, "access reviews not performed")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEmbed_DistinctTextsDiffer(t *testing.T) {
	e := static.NewEmbedder(16)
	ctx := context.Background()

	a, err := e.Embed(ctx, "access reviews not performed")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "vendor contract lapsed")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestEmbed_UnitNorm(t *testing.T) {
	e := static.NewEmbedder(32)

	vector, err := e.Embed(context.Background(), "segregation of duties gap")
	require.NoError(t, err)
	require.Len(t, vector, 32)

	var sum float64
	for _, x := range vector {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestEmbed_DefaultDimensions(t *testing.T) {
	e := static.NewEmbedder(0)

	vector, err := e.Embed(context.Background(), "anything")
	require.NoError(t, err)
	assert.Len(t, vector, 16)
}

func TestEmbed_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := static.NewEmbedder(16).Embed(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
}
