package store

import (
	"context"

	"github.com/auditgen/discrepancy-engine/internal/domain"
	"github.com/auditgen/discrepancy-engine/internal/store"
)

// Bridge adapts store.Store to the compare.Store interface.
// This avoids circular dependencies between packages.
type Bridge struct {
	store store.Store
}

// NewBridge creates a new store adapter.
func NewBridge(s store.Store) *Bridge {
	return &Bridge{store: s}
}

// SaveComparison converts and saves a comparison result.
func (b *Bridge) SaveComparison(ctx context.Context, result domain.ComparisonResult) error {
	record := store.ComparisonRecord{
		ComparisonID:     result.ComparisonID,
		Timestamp:        result.ComparisonDate,
		Documents:        result.DocumentsCompared,
		ConsistencyScore: result.ConsistencyScore,
		ConfidenceLevel:  result.ConfidenceLevel,
		Trivial:          result.Metadata.Trivial,
		TotalGroups:      result.Metadata.TotalGroups,
		ConsistentGroups: result.Metadata.ConsistentGroups,
		DegradedFindings: result.Metadata.DegradedFindings,
	}

	for _, d := range result.Discrepancies {
		record.Discrepancies = append(record.Discrepancies, store.DiscrepancyRecord{
			ComparisonID:     result.ComparisonID,
			Type:             string(d.Type),
			RiskLevel:        string(d.RiskLevel),
			Description:      d.Description,
			AffectedSections: d.AffectedSections,
			Recommendations:  d.Recommendations,
			FindingIDs:       d.FindingIDs,
		})
	}

	for _, w := range result.Metadata.Warnings {
		record.Warnings = append(record.Warnings, store.WarningRecord{
			ComparisonID: result.ComparisonID,
			Code:         string(w.Code),
			FindingID:    w.FindingID,
			Message:      w.Message,
		})
	}

	return b.store.SaveComparison(ctx, record)
}

// Close closes the underlying store.
func (b *Bridge) Close() error {
	return b.store.Close()
}
