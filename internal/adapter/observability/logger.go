package observability

import (
	"context"

	"github.com/auditgen/discrepancy-engine/internal/adapter/embed"
	"github.com/auditgen/discrepancy-engine/internal/usecase/compare"
)

// CompareLogger adapts embed.Logger to the compare.Logger interface.
// This allows the comparison orchestrator to use the same structured logging
// infrastructure as the embedding clients.
type CompareLogger struct {
	logger embed.Logger
}

// NewCompareLogger creates a new comparison logger adapter.
func NewCompareLogger(logger embed.Logger) compare.Logger {
	return &CompareLogger{logger: logger}
}

// LogWarning logs a warning message with structured fields.
// Delegates to the underlying embed.Logger for consistent structured logging.
func (l *CompareLogger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogWarning(ctx, message, fields)
}

// LogInfo logs an informational message with structured fields.
// Delegates to the underlying embed.Logger for consistent structured logging.
func (l *CompareLogger) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogInfo(ctx, message, fields)
}
