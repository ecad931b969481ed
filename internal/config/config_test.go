package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/auditgen/discrepancy-engine/internal/config"
)

func TestMerge_OverlayWinsPerSection(t *testing.T) {
	base := config.Config{
		Embedding:  config.EmbeddingConfig{Provider: "static", Dimensions: 16},
		Similarity: config.SimilarityConfig{GroupThreshold: 0.80, AgreementThreshold: 0.90},
		Output:     config.OutputConfig{Directory: "out"},
	}
	overlay := config.Config{
		Embedding: config.EmbeddingConfig{Provider: "gemini", Model: "gemini-embedding-001"},
	}

	merged := config.Merge(base, overlay)

	assert.Equal(t, "gemini", merged.Embedding.Provider)
	assert.Equal(t, "gemini-embedding-001", merged.Embedding.Model)
	// Untouched sections keep the base values.
	assert.Equal(t, 0.80, merged.Similarity.GroupThreshold)
	assert.Equal(t, "out", merged.Output.Directory)
}

func TestMerge_EmptyOverlayKeepsBase(t *testing.T) {
	base := config.Config{
		Embedding: config.EmbeddingConfig{Provider: "static"},
		Store:     config.StoreConfig{Enabled: true, Path: "comparisons.db"},
	}

	merged := config.Merge(base, config.Config{})

	assert.Equal(t, base, merged)
}

func TestMerge_SectionsReplaceWholesale(t *testing.T) {
	// A section overlay replaces the entire section, not individual fields.
	base := config.Config{
		Similarity: config.SimilarityConfig{GroupThreshold: 0.80, AgreementThreshold: 0.90},
	}
	overlay := config.Config{
		Similarity: config.SimilarityConfig{GroupThreshold: 0.70},
	}

	merged := config.Merge(base, overlay)

	assert.Equal(t, 0.70, merged.Similarity.GroupThreshold)
	assert.Equal(t, 0.0, merged.Similarity.AgreementThreshold)
}

func TestMerge_LaterOverlaysWin(t *testing.T) {
	first := config.Config{Output: config.OutputConfig{Directory: "a"}}
	second := config.Config{Output: config.OutputConfig{Directory: "b"}}
	third := config.Config{Output: config.OutputConfig{Directory: "c"}}

	merged := config.Merge(first, second, third)

	assert.Equal(t, "c", merged.Output.Directory)
}

func TestMerge_StoreEnabledOrPathTriggersOverlay(t *testing.T) {
	base := config.Config{Store: config.StoreConfig{Enabled: true, Path: "base.db"}}
	overlay := config.Config{Store: config.StoreConfig{Path: "overlay.db"}}

	merged := config.Merge(base, overlay)

	assert.Equal(t, "overlay.db", merged.Store.Path)
	assert.False(t, merged.Store.Enabled)
}

func TestMerge_ObservabilityLogging(t *testing.T) {
	base := config.Config{
		Observability: config.ObservabilityConfig{
			Logging: config.LoggingConfig{Enabled: true, Level: "info", Format: "auto"},
		},
	}
	overlay := config.Config{
		Observability: config.ObservabilityConfig{
			Logging: config.LoggingConfig{Enabled: true, Level: "debug", Format: "json"},
		},
	}

	merged := config.Merge(base, overlay)

	assert.Equal(t, "debug", merged.Observability.Logging.Level)
	assert.Equal(t, "json", merged.Observability.Logging.Format)
}
