package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SourceType identifies which audit document stream a finding came from.
type SourceType string

const (
	SourceInternal SourceType = "internal"
	SourceSEC      SourceType = "sec"
	SourceVendor   SourceType = "vendor"
)

// ParseSourceType returns the canonical source type for s.
func ParseSourceType(s string) (SourceType, bool) {
	switch SourceType(s) {
	case SourceInternal, SourceSEC, SourceVendor:
		return SourceType(s), true
	}
	return "", false
}

// Rank orders sources for deterministic processing: internal < sec < vendor.
func (s SourceType) Rank() int {
	switch s {
	case SourceInternal:
		return 0
	case SourceSEC:
		return 1
	case SourceVendor:
		return 2
	}
	return 3
}

// Category is the audit domain a finding belongs to.
type Category string

const (
	CategoryInternalControl    Category = "internal_control"
	CategoryFinancialReporting Category = "financial_reporting"
	CategoryCompliance         Category = "compliance"
)

// ParseCategory returns the canonical category for s.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryInternalControl, CategoryFinancialReporting, CategoryCompliance:
		return Category(s), true
	}
	return "", false
}

// Severity is the reported severity of a finding.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// ParseSeverity returns the canonical severity for s.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(s) {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return Severity(s), true
	}
	return "", false
}

// Rank orders severities so that max() is well defined: high > medium > low.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// MaxSeverity returns the higher-ranked of a and b.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// RawFinding is a finding record as delivered by document ingestion,
// matching the Document Metadata Schema findings array.
type RawFinding struct {
	FindingID           string `json:"finding_id"`
	Category            string `json:"category"`
	Severity            string `json:"severity"`
	Description         string `json:"description"`
	ManagementResponse  string `json:"management_response,omitempty"`
	RemediationTimeline string `json:"remediation_timeline,omitempty"`
}

// Finding is a canonicalized audit finding. Instances are immutable once
// produced by the normalizer; every downstream stage reads, never writes.
type Finding struct {
	FindingID           string
	Source              SourceType
	Category            Category
	Severity            Severity
	Description         string
	ManagementResponse  string
	RemediationTimeline string

	// Comparable is the trimmed, case-folded text used for similarity
	// comparisons only. Display fields above keep the original casing.
	Comparable string

	// Embedding is the vector attached by the embedding capability.
	// Empty when Degraded is true.
	Embedding []float32

	// Degraded marks a finding whose embedding could not be obtained.
	// Similarity comparisons involving it fall back to lexical overlap.
	Degraded bool
}

// Fingerprint returns a stable content hash for the finding, used for
// persistence and idempotence checks.
func (f Finding) Fingerprint() string {
	payload := fmt.Sprintf("%s|%s|%s|%s|%s",
		f.Source,
		f.FindingID,
		f.Category,
		f.Severity,
		f.Description,
	)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
