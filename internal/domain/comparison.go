package domain

import "time"

// DiscrepancyType classifies how an issue group disagrees across sources.
type DiscrepancyType string

const (
	DiscrepancyConsistent    DiscrepancyType = "consistent"
	DiscrepancyMissing       DiscrepancyType = "missing"
	DiscrepancyInconsistent  DiscrepancyType = "inconsistent"
	DiscrepancyContradictory DiscrepancyType = "contradictory"
)

// RiskLevel is the materiality assessment assigned to a discrepancy.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// ParseRiskLevel returns the canonical risk level for s.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch RiskLevel(s) {
	case RiskHigh, RiskMedium, RiskLow:
		return RiskLevel(s), true
	}
	return "", false
}

// IssueGroup is a set of findings from different sources believed to describe
// the same underlying audit issue. At most one member per source. Created by
// the grouper and read-only downstream.
type IssueGroup struct {
	Category Category
	Members  []Finding

	// Confidence is the similarity evidence used to form the group:
	// the mean join similarity of non-representative members, or 1.0 for a
	// singleton (placement of a lone finding is unambiguous).
	Confidence float64
}

// Representative returns the first member added, which anchored the group.
func (g IssueGroup) Representative() Finding {
	return g.Members[0]
}

// HasSource reports whether the group already holds a finding from src.
func (g IssueGroup) HasSource(src SourceType) bool {
	for _, m := range g.Members {
		if m.Source == src {
			return true
		}
	}
	return false
}

// Degraded reports whether any member lacks an embedding.
func (g IssueGroup) Degraded() bool {
	for _, m := range g.Members {
		if m.Degraded {
			return true
		}
	}
	return false
}

// MaxSeverity returns the highest severity among members.
func (g IssueGroup) MaxSeverity() Severity {
	max := SeverityLow
	for _, m := range g.Members {
		max = MaxSeverity(max, m.Severity)
	}
	return max
}

// FindingIDs returns member finding IDs in member order.
func (g IssueGroup) FindingIDs() []string {
	ids := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		ids = append(ids, m.FindingID)
	}
	return ids
}

// Discrepancy is a classified disagreement derived from one issue group.
type Discrepancy struct {
	Type             DiscrepancyType `json:"discrepancy_type"`
	RiskLevel        RiskLevel       `json:"risk_level"`
	Description      string          `json:"description"`
	AffectedSections []string        `json:"affected_sections"`
	Recommendations  []string        `json:"recommendations"`
	FindingIDs       []string        `json:"finding_ids"`
}

// WarningCode identifies a recoverable fault recorded during a run.
type WarningCode string

const (
	WarningUnrecognizedTaxonomy WarningCode = "unrecognized_taxonomy_value"
	WarningEmbeddingUnavailable WarningCode = "embedding_unavailable"
)

// Warning records a per-finding fault that did not stop the comparison.
type Warning struct {
	Code      WarningCode `json:"code"`
	FindingID string      `json:"finding_id,omitempty"`
	Message   string      `json:"message"`
}

// ComparisonMetadata carries run-level context attached to the result.
type ComparisonMetadata struct {
	Trivial          bool      `json:"trivial"`
	TotalGroups      int       `json:"total_groups"`
	ConsistentGroups int       `json:"consistent_groups"`
	DegradedFindings int       `json:"degraded_findings"`
	Warnings         []Warning `json:"warnings,omitempty"`
}

// ComparisonResult is the terminal artifact of a comparison run, matching the
// Comparison Result Schema handed to reporting and persistence collaborators.
type ComparisonResult struct {
	ComparisonID      string             `json:"comparison_id"`
	DocumentsCompared []string           `json:"documents_compared"`
	ComparisonDate    time.Time          `json:"comparison_date"`
	Discrepancies     []Discrepancy      `json:"discrepancies"`
	ConsistencyScore  float64            `json:"consistency_score"`
	ConfidenceLevel   float64            `json:"confidence_level"`
	Metadata          ComparisonMetadata `json:"metadata"`
}
