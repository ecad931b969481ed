package store

import (
	"context"
	"time"
)

// Store defines the persistence layer interface for comparison history.
type Store interface {
	// Comparison persistence
	SaveComparison(ctx context.Context, record ComparisonRecord) error
	GetComparison(ctx context.Context, comparisonID string) (ComparisonRecord, error)
	ListComparisons(ctx context.Context, limit int) ([]ComparisonRecord, error)

	// Aggregate statistics across the stored history
	Stats(ctx context.Context) (ComparisonStats, error)

	// Utility
	Close() error
}

// ComparisonRecord stores one completed comparison run.
type ComparisonRecord struct {
	ComparisonID     string
	Timestamp        time.Time
	Documents        []string
	ConsistencyScore float64
	ConfidenceLevel  float64
	Trivial          bool
	TotalGroups      int
	ConsistentGroups int
	DegradedFindings int
	Discrepancies    []DiscrepancyRecord
	Warnings         []WarningRecord
}

// DiscrepancyRecord represents a single discrepancy within a comparison.
// Ordinal preserves the order discrepancies were emitted in.
type DiscrepancyRecord struct {
	ComparisonID     string
	Ordinal          int
	Type             string
	RiskLevel        string
	Description      string
	AffectedSections []string
	Recommendations  []string
	FindingIDs       []string
}

// WarningRecord stores a recoverable fault noted during a run.
type WarningRecord struct {
	ComparisonID string
	Code         string
	FindingID    string
	Message      string
}

// ComparisonStats summarizes the stored comparison history.
type ComparisonStats struct {
	TotalComparisons   int
	TotalDiscrepancies int
	AverageConsistency float64
	ByRiskLevel        map[string]int
}
