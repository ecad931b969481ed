package domain_test

import (
	"testing"

	"github.com/auditgen/discrepancy-engine/internal/domain"
	"github.com/stretchr/testify/assert"
)

func groupWith(findings ...domain.Finding) domain.IssueGroup {
	return domain.IssueGroup{
		Category:   findings[0].Category,
		Members:    findings,
		Confidence: 1.0,
	}
}

func TestIssueGroup_HasSource(t *testing.T) {
	group := groupWith(
		domain.Finding{FindingID: "IA-001", Source: domain.SourceInternal, Category: domain.CategoryCompliance},
		domain.Finding{FindingID: "SEC-003", Source: domain.SourceSEC, Category: domain.CategoryCompliance},
	)

	assert.True(t, group.HasSource(domain.SourceInternal))
	assert.True(t, group.HasSource(domain.SourceSEC))
	assert.False(t, group.HasSource(domain.SourceVendor))
}

func TestIssueGroup_Degraded(t *testing.T) {
	clean := groupWith(
		domain.Finding{FindingID: "IA-001", Source: domain.SourceInternal},
	)
	degraded := groupWith(
		domain.Finding{FindingID: "IA-001", Source: domain.SourceInternal},
		domain.Finding{FindingID: "V-002", Source: domain.SourceVendor, Degraded: true},
	)

	assert.False(t, clean.Degraded())
	assert.True(t, degraded.Degraded())
}

func TestIssueGroup_MaxSeverity(t *testing.T) {
	group := groupWith(
		domain.Finding{FindingID: "IA-001", Source: domain.SourceInternal, Severity: domain.SeverityLow},
		domain.Finding{FindingID: "SEC-003", Source: domain.SourceSEC, Severity: domain.SeverityHigh},
		domain.Finding{FindingID: "V-007", Source: domain.SourceVendor, Severity: domain.SeverityMedium},
	)

	assert.Equal(t, domain.SeverityHigh, group.MaxSeverity())
}

func TestIssueGroup_FindingIDsPreservesMemberOrder(t *testing.T) {
	group := groupWith(
		domain.Finding{FindingID: "IA-001", Source: domain.SourceInternal},
		domain.Finding{FindingID: "SEC-003", Source: domain.SourceSEC},
	)

	assert.Equal(t, []string{"IA-001", "SEC-003"}, group.FindingIDs())
}
