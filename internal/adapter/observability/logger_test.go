package observability_test

import (
	"bytes"
	"context"
	"log"
	"os"
	"testing"

	"github.com/auditgen/discrepancy-engine/internal/adapter/embed"
	"github.com/auditgen/discrepancy-engine/internal/adapter/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompareLogger(t *testing.T) {
	embedLogger := embed.NewDefaultLogger(embed.LogLevelInfo, embed.LogFormatHuman, true)
	compareLogger := observability.NewCompareLogger(embedLogger)

	require.NotNil(t, compareLogger)
}

func TestCompareLogger_LogWarning(t *testing.T) {
	// Capture log output
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	embedLogger := embed.NewDefaultLogger(embed.LogLevelInfo, embed.LogFormatHuman, true)
	compareLogger := observability.NewCompareLogger(embedLogger)

	ctx := context.Background()
	compareLogger.LogWarning(ctx, "failed to save comparison", map[string]interface{}{
		"comparisonID": "cmp-123",
		"error":        "database connection failed",
	})

	output := buf.String()
	assert.Contains(t, output, "[WARN]")
	assert.Contains(t, output, "failed to save comparison")
	assert.Contains(t, output, "comparisonID=cmp-123")
	assert.Contains(t, output, "error=database connection failed")
}

func TestCompareLogger_LogInfo(t *testing.T) {
	// Capture log output
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	embedLogger := embed.NewDefaultLogger(embed.LogLevelInfo, embed.LogFormatHuman, true)
	compareLogger := observability.NewCompareLogger(embedLogger)

	ctx := context.Background()
	compareLogger.LogInfo(ctx, "comparison completed", map[string]interface{}{
		"comparisonID":  "cmp-456",
		"discrepancies": 3,
	})

	output := buf.String()
	assert.Contains(t, output, "[INFO]")
	assert.Contains(t, output, "comparison completed")
	assert.Contains(t, output, "comparisonID=cmp-456")
	assert.Contains(t, output, "discrepancies=3")
}
