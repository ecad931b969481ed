package redaction_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/auditgen/discrepancy-engine/internal/redaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Redact(t *testing.T) {
	t.Run("redacts social security numbers", func(t *testing.T) {
		engine := redaction.NewEngine()
		input := `Employee 578-12-4390 was granted posting access without approval`

		result, err := engine.Redact(input)
		require.NoError(t, err)

		assert.NotContains(t, result, "578-12-4390")
		assert.Contains(t, result, "<REDACTED:")
	})

	t.Run("redacts employer identification numbers", func(t *testing.T) {
		engine := redaction.NewEngine()
		input := `Subsidiary filing under EIN 47-2841956 omitted the disclosure`

		result, err := engine.Redact(input)
		require.NoError(t, err)

		assert.NotContains(t, result, "47-2841956")
		assert.Contains(t, result, "<REDACTED:")
	})

	t.Run("redacts account references", func(t *testing.T) {
		engine := redaction.NewEngine()
		input := `Reconciliation gap identified in account no. 004417382991`

		result, err := engine.Redact(input)
		require.NoError(t, err)

		assert.NotContains(t, result, "004417382991")
		assert.Contains(t, result, "<REDACTED:")
	})

	t.Run("redacts payment card numbers", func(t *testing.T) {
		engine := redaction.NewEngine()
		input := `Corporate card 4111 1111 1111 1111 used for an unapproved vendor`

		result, err := engine.Redact(input)
		require.NoError(t, err)

		assert.NotContains(t, result, "4111 1111 1111 1111")
		assert.Contains(t, result, "<REDACTED:")
	})

	t.Run("redacts email addresses", func(t *testing.T) {
		engine := redaction.NewEngine()
		input := `Approval email sent from controller@example-corp.com after close`

		result, err := engine.Redact(input)
		require.NoError(t, err)

		assert.NotContains(t, result, "controller@example-corp.com")
		assert.Contains(t, result, "<REDACTED:")
	})

	t.Run("redacts pasted API keys", func(t *testing.T) {
		engine := redaction.NewEngine()
		input := `Integration credential sk-1234567890abcdefghijklmnop found in config`

		result, err := engine.Redact(input)
		require.NoError(t, err)

		assert.NotContains(t, result, "sk-1234567890abcdefghijklmnop")
		assert.Contains(t, result, "<REDACTED:")
	})

	t.Run("leaves ordinary finding text unchanged", func(t *testing.T) {
		engine := redaction.NewEngine()
		input := `Quarterly access review was not performed for the ERP system`

		result, err := engine.Redact(input)
		require.NoError(t, err)

		assert.Equal(t, input, result, "text without identifiers should remain unchanged")
	})

	t.Run("uses stable placeholders for the same identifier", func(t *testing.T) {
		engine := redaction.NewEngine()
		ssn := "578-12-4390"
		input := fmt.Sprintf("First mention %s and second mention %s", ssn, ssn)

		result, err := engine.Redact(input)
		require.NoError(t, err)

		assert.NotContains(t, result, ssn)
		assert.Contains(t, result, "<REDACTED:")

		first := strings.Index(result, "<REDACTED:")
		require.GreaterOrEqual(t, first, 0)
		end := strings.Index(result[first:], ">") + first + 1
		placeholder := result[first:end]

		assert.Equal(t, 2, strings.Count(result, placeholder), "same identifier should use same placeholder")
	})

	t.Run("handles empty input", func(t *testing.T) {
		engine := redaction.NewEngine()
		result, err := engine.Redact("")
		require.NoError(t, err)
		assert.Equal(t, "", result)
	})
}

func TestEngine_IsRedacted(t *testing.T) {
	t.Run("detects redacted content", func(t *testing.T) {
		engine := redaction.NewEngine()
		input := `Payroll record for 578-12-4390 modified outside the close window`

		redacted, err := engine.Redact(input)
		require.NoError(t, err)

		assert.True(t, engine.IsRedacted(redacted), "should detect redacted content")
	})

	t.Run("returns false for non-redacted content", func(t *testing.T) {
		engine := redaction.NewEngine()
		input := `Segregation of duties conflict between posting and approval roles`

		assert.False(t, engine.IsRedacted(input), "should not detect redaction in clean content")
	})
}
