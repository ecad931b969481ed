package redaction

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// Engine performs regex-based detection and redaction of sensitive
// identifiers in finding text before it is sent to an external service.
type Engine struct {
	patterns []*regexp.Regexp
}

// NewEngine creates a new redaction engine with default identifier patterns.
func NewEngine() *Engine {
	return &Engine{
		patterns: defaultPatterns(),
	}
}

// Redact scans input for sensitive identifiers and replaces them with
// stable placeholders.
func (e *Engine) Redact(input string) (string, error) {
	result := input
	seen := make(map[string]string) // identifier -> placeholder

	for _, pattern := range e.patterns {
		matches := pattern.FindAllString(result, -1)
		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = e.generatePlaceholder(match)
		}
	}

	for identifier, placeholder := range seen {
		result = strings.ReplaceAll(result, identifier, placeholder)
	}

	return result, nil
}

// IsRedacted checks if the content contains redaction placeholders.
func (e *Engine) IsRedacted(content string) bool {
	return strings.Contains(content, "<REDACTED:")
}

// generatePlaceholder creates a stable, unique placeholder for an identifier.
func (e *Engine) generatePlaceholder(identifier string) string {
	hash := sha256.Sum256([]byte(identifier))
	hashStr := hex.EncodeToString(hash[:])[:8]
	return fmt.Sprintf("<REDACTED:%s>", hashStr)
}

// defaultPatterns returns the default set of regex patterns for identifiers
// that must not leave the process toward the embedding service.
func defaultPatterns() []*regexp.Regexp {
	patterns := []string{
		// US Social Security Numbers
		`\b\d{3}-\d{2}-\d{4}\b`,
		// Employer Identification Numbers
		`\b\d{2}-\d{7}\b`,
		// Bank account references as they appear in audit narratives
		`(?i)\b(?:account|acct)\.?\s*(?:no\.?|number|#)?\s*[:#]?\s*\d{6,17}\b`,
		// Payment card numbers (13-19 digits, optionally separated)
		`\b(?:\d[ -]?){13,19}\b`,
		// Email addresses
		`\b[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}\b`,
		// API keys occasionally pasted into findings
		`sk-[a-zA-Z0-9]{20,}`,
		`AIza[0-9A-Za-z\-_]{35}`,
		// Generic bearer tokens (after "Bearer " keyword)
		`Bearer\s+[a-zA-Z0-9_\-\.]+`,
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re := regexp.MustCompile(pattern)
		compiled = append(compiled, re)
	}

	return compiled
}
