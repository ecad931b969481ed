package embed

import (
	"bytes"
	"context"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T, fn func()) string {
	t.Helper()
	orig := log.Writer()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(orig)
	fn()
	return buf.String()
}

func TestRedactAPIKey(t *testing.T) {
	redacting := NewDefaultLogger(LogLevelInfo, LogFormatHuman, true)
	plain := NewDefaultLogger(LogLevelInfo, LogFormatHuman, false)

	assert.Equal(t, "[REDACTED-6789]", redacting.RedactAPIKey("sk-123456789"))
	assert.Equal(t, "[REDACTED]", plain.RedactAPIKey(""))
	assert.Equal(t, "sk-123456789", plain.RedactAPIKey("sk-123456789"))
	assert.Equal(t, "[REDACTED]", redacting.RedactAPIKey("abcd"))
}

func TestLogRequest_RedactsKey(t *testing.T) {
	logger := NewDefaultLogger(LogLevelDebug, LogFormatHuman, true)

	out := captureLog(t, func() {
		logger.LogRequest(context.Background(), RequestLog{
			Provider:  "gemini",
			Model:     "gemini-embedding-001",
			Timestamp: time.Now(),
			TextChars: 42,
			APIKey:    "sk-secret-key-9876",
		})
	})

	assert.Contains(t, out, "[DEBUG]")
	assert.Contains(t, out, "[REDACTED-9876]")
	assert.NotContains(t, out, "sk-secret-key-9876")
}

func TestLogRequest_SuppressedAboveDebug(t *testing.T) {
	logger := NewDefaultLogger(LogLevelInfo, LogFormatHuman, true)

	out := captureLog(t, func() {
		logger.LogRequest(context.Background(), RequestLog{Provider: "gemini"})
	})

	assert.Empty(t, out)
}

func TestLogError_AlwaysEmitted(t *testing.T) {
	logger := NewDefaultLogger(LogLevelError, LogFormatHuman, true)

	out := captureLog(t, func() {
		logger.LogError(context.Background(), ErrorLog{
			Provider:   "gemini",
			Model:      "gemini-embedding-001",
			Error:      NewRateLimitError("gemini", "quota"),
			ErrorType:  ErrTypeRateLimit,
			StatusCode: 429,
			Retryable:  true,
		})
	})

	assert.Contains(t, out, "[ERROR]")
	assert.Contains(t, out, "retryable")
	assert.Contains(t, out, "429")
}

func TestLogWarning_HumanFormat(t *testing.T) {
	logger := NewDefaultLogger(LogLevelInfo, LogFormatHuman, true)

	out := captureLog(t, func() {
		logger.LogWarning(context.Background(), "embedding degraded", map[string]interface{}{
			"findingID": "I-001",
			"error":     "quota exhausted",
		})
	})

	assert.Contains(t, out, "[WARN] embedding degraded")
	// Fields are emitted in sorted key order.
	assert.Contains(t, out, "error=quota exhausted findingID=I-001")
}

func TestLogWarning_JSONFormat(t *testing.T) {
	logger := NewDefaultLogger(LogLevelInfo, LogFormatJSON, true)

	out := captureLog(t, func() {
		logger.LogWarning(context.Background(), "embedding degraded", map[string]interface{}{
			"findingID": "I-001",
		})
	})

	assert.Contains(t, out, `"level":"warning"`)
	assert.Contains(t, out, `"message":"embedding degraded"`)
	assert.Contains(t, out, `"findingID":"I-001"`)
}

func TestLogInfo_SuppressedAtErrorLevel(t *testing.T) {
	logger := NewDefaultLogger(LogLevelError, LogFormatHuman, true)

	out := captureLog(t, func() {
		logger.LogInfo(context.Background(), "comparison completed", nil)
	})

	assert.Empty(t, out)
}
