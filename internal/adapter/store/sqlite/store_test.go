package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/auditgen/discrepancy-engine/internal/adapter/store/sqlite"
	"github.com/auditgen/discrepancy-engine/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func sampleRecord(comparisonID string) store.ComparisonRecord {
	return store.ComparisonRecord{
		ComparisonID:     comparisonID,
		Timestamp:        time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		Documents:        []string{"internal-q1", "sec-q1", "vendor-q1"},
		ConsistencyScore: 0.75,
		ConfidenceLevel:  0.91,
		TotalGroups:      4,
		ConsistentGroups: 3,
		DegradedFindings: 1,
		Discrepancies: []store.DiscrepancyRecord{
			{
				ComparisonID:     comparisonID,
				Type:             "missing",
				RiskLevel:        "high",
				Description:      "Finding reported by internal audit is absent from the vendor report",
				AffectedSections: []string{"access_control:internal", "access_control:sec"},
				Recommendations:  []string{"Confirm scope coverage with the vendor team"},
				FindingIDs:       []string{"INT-001", "SEC-014"},
			},
			{
				ComparisonID:     comparisonID,
				Type:             "inconsistent",
				RiskLevel:        "medium",
				Description:      "Severity ratings differ across sources",
				AffectedSections: []string{"financial_reporting:internal", "financial_reporting:vendor"},
				Recommendations:  []string{"Reconcile the severity rubrics"},
				FindingIDs:       []string{"INT-002", "VEN-117"},
			},
		},
		Warnings: []store.WarningRecord{
			{
				ComparisonID: comparisonID,
				Code:         "embedding_unavailable",
				FindingID:    "VEN-117",
				Message:      "embedding provider timed out; lexical similarity used",
			},
		},
	}
}

func TestStore_SaveAndGetComparison(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	original := sampleRecord("cmp-001")
	require.NoError(t, s.SaveComparison(ctx, original))

	got, err := s.GetComparison(ctx, "cmp-001")
	require.NoError(t, err)

	assert.Equal(t, original.ComparisonID, got.ComparisonID)
	assert.Equal(t, original.Timestamp.Unix(), got.Timestamp.Unix())
	assert.Equal(t, original.Documents, got.Documents)
	assert.Equal(t, original.ConsistencyScore, got.ConsistencyScore)
	assert.Equal(t, original.ConfidenceLevel, got.ConfidenceLevel)
	assert.Equal(t, original.Trivial, got.Trivial)
	assert.Equal(t, original.TotalGroups, got.TotalGroups)
	assert.Equal(t, original.ConsistentGroups, got.ConsistentGroups)
	assert.Equal(t, original.DegradedFindings, got.DegradedFindings)

	require.Len(t, got.Discrepancies, 2)
	assert.Equal(t, 0, got.Discrepancies[0].Ordinal)
	assert.Equal(t, "missing", got.Discrepancies[0].Type)
	assert.Equal(t, original.Discrepancies[0].AffectedSections, got.Discrepancies[0].AffectedSections)
	assert.Equal(t, original.Discrepancies[0].FindingIDs, got.Discrepancies[0].FindingIDs)
	assert.Equal(t, 1, got.Discrepancies[1].Ordinal)
	assert.Equal(t, "inconsistent", got.Discrepancies[1].Type)

	require.Len(t, got.Warnings, 1)
	assert.Equal(t, "embedding_unavailable", got.Warnings[0].Code)
	assert.Equal(t, "VEN-117", got.Warnings[0].FindingID)
}

func TestStore_SaveComparison_ReplacesPriorRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := sampleRecord("cmp-001")
	require.NoError(t, s.SaveComparison(ctx, first))

	second := sampleRecord("cmp-001")
	second.ConsistencyScore = 0.5
	second.Discrepancies = second.Discrepancies[:1]
	second.Warnings = nil
	require.NoError(t, s.SaveComparison(ctx, second))

	got, err := s.GetComparison(ctx, "cmp-001")
	require.NoError(t, err)

	assert.Equal(t, 0.5, got.ConsistencyScore)
	assert.Len(t, got.Discrepancies, 1)
	assert.Empty(t, got.Warnings)

	records, err := s.ListComparisons(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, records, 1, "re-saving the same comparison should not create a second row")
}

func TestStore_GetComparison_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetComparison(context.Background(), "cmp-missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "comparison not found")
}

func TestStore_ListComparisons(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older := sampleRecord("cmp-old")
	older.Timestamp = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveComparison(ctx, older))

	newer := sampleRecord("cmp-new")
	newer.Timestamp = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	require.NoError(t, s.SaveComparison(ctx, newer))

	records, err := s.ListComparisons(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "cmp-new", records[0].ComparisonID, "most recent comparison should come first")
	assert.Equal(t, "cmp-old", records[1].ComparisonID)

	limited, err := s.ListComparisons(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "cmp-new", limited[0].ComparisonID)
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		stats, err := s.Stats(ctx)
		require.NoError(t, err)

		assert.Equal(t, 0, stats.TotalComparisons)
		assert.Equal(t, 0, stats.TotalDiscrepancies)
		assert.Equal(t, 0.0, stats.AverageConsistency)
	})

	t.Run("aggregates across comparisons", func(t *testing.T) {
		first := sampleRecord("cmp-001")
		first.ConsistencyScore = 0.6
		require.NoError(t, s.SaveComparison(ctx, first))

		second := sampleRecord("cmp-002")
		second.ConsistencyScore = 0.8
		second.Discrepancies = second.Discrepancies[:1]
		require.NoError(t, s.SaveComparison(ctx, second))

		stats, err := s.Stats(ctx)
		require.NoError(t, err)

		assert.Equal(t, 2, stats.TotalComparisons)
		assert.Equal(t, 3, stats.TotalDiscrepancies)
		assert.InDelta(t, 0.7, stats.AverageConsistency, 1e-9)
		assert.Equal(t, 2, stats.ByRiskLevel["high"])
		assert.Equal(t, 1, stats.ByRiskLevel["medium"])
	})
}
