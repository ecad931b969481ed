package normalize

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/auditgen/discrepancy-engine/internal/domain"
)

// SynonymTable maps source-specific vocabulary onto the canonical taxonomy.
// Keys are matched after trimming and case-folding. Values must be canonical
// taxonomy terms; a raw value with no mapping is a taxonomy error, never a
// silent coercion.
type SynonymTable struct {
	Severity map[string]string `yaml:"severity"`
	Category map[string]string `yaml:"category"`
}

// DefaultSynonymTable covers vocabulary commonly seen across internal audit,
// regulatory filing, and vendor report streams.
func DefaultSynonymTable() SynonymTable {
	return SynonymTable{
		Severity: map[string]string{
			"critical":      "high",
			"severe":        "high",
			"significant":   "medium",
			"moderate":      "medium",
			"minor":         "low",
			"informational": "low",
		},
		Category: map[string]string{
			"icfr":                 "internal_control",
			"internal controls":    "internal_control",
			"control deficiency":   "internal_control",
			"financial statements": "financial_reporting",
			"reporting":            "financial_reporting",
			"regulatory":           "compliance",
			"legal and compliance": "compliance",
		},
	}
}

// Merge overlays other on top of the receiver, with other winning conflicts.
func (t SynonymTable) Merge(other SynonymTable) SynonymTable {
	merged := SynonymTable{
		Severity: make(map[string]string, len(t.Severity)+len(other.Severity)),
		Category: make(map[string]string, len(t.Category)+len(other.Category)),
	}
	for k, v := range t.Severity {
		merged.Severity[Fold(k)] = v
	}
	for k, v := range other.Severity {
		merged.Severity[Fold(k)] = v
	}
	for k, v := range t.Category {
		merged.Category[Fold(k)] = v
	}
	for k, v := range other.Category {
		merged.Category[Fold(k)] = v
	}
	return merged
}

// ResolveSeverity canonicalizes a raw severity value.
func (t SynonymTable) ResolveSeverity(raw string) (domain.Severity, bool) {
	folded := Fold(raw)
	if severity, ok := domain.ParseSeverity(folded); ok {
		return severity, true
	}
	if mapped, ok := t.Severity[folded]; ok {
		return domain.ParseSeverity(mapped)
	}
	return "", false
}

// ResolveCategory canonicalizes a raw category value.
func (t SynonymTable) ResolveCategory(raw string) (domain.Category, bool) {
	folded := Fold(raw)
	if category, ok := domain.ParseCategory(folded); ok {
		return category, true
	}
	if mapped, ok := t.Category[folded]; ok {
		return domain.ParseCategory(mapped)
	}
	return "", false
}

var folder = cases.Fold()

// Fold trims and case-folds text for comparison purposes. Display text is
// never folded; only the comparable representation is.
func Fold(s string) string {
	return folder.String(strings.TrimSpace(s))
}
