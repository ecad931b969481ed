package risk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditgen/discrepancy-engine/internal/domain"
	"github.com/auditgen/discrepancy-engine/internal/usecase/risk"
)

func TestScore_LooksUpByTypeMaxSeverityAndCategory(t *testing.T) {
	rubric := domain.NewRiskRubric(map[domain.RubricKey]domain.RiskLevel{
		{Type: domain.DiscrepancyInconsistent, Severity: domain.SeverityHigh, Category: domain.CategoryFinancialReporting}: domain.RiskHigh,
	})
	svc := risk.NewService(rubric)

	// Members disagree on severity; the lookup key carries the maximum.
	g := domain.IssueGroup{
		Category: domain.CategoryFinancialReporting,
		Members: []domain.Finding{
			{FindingID: "I-001", Source: domain.SourceInternal, Severity: domain.SeverityLow},
			{FindingID: "S-001", Source: domain.SourceSEC, Severity: domain.SeverityHigh},
		},
	}

	level, err := svc.Score(domain.DiscrepancyInconsistent, g)
	require.NoError(t, err)
	assert.Equal(t, domain.RiskHigh, level)
}

func TestScore_MissingEntryFails(t *testing.T) {
	svc := risk.NewService(domain.NewRiskRubric(nil))

	g := domain.IssueGroup{
		Category: domain.CategoryCompliance,
		Members:  []domain.Finding{{FindingID: "V-001", Source: domain.SourceVendor, Severity: domain.SeverityMedium}},
	}

	_, err := svc.Score(domain.DiscrepancyMissing, g)

	var missing *domain.MissingRubricEntryError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, domain.DiscrepancyMissing, missing.Key.Type)
	assert.Equal(t, domain.SeverityMedium, missing.Key.Severity)
	assert.Equal(t, domain.CategoryCompliance, missing.Key.Category)
}
