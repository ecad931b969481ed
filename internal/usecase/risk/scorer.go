// Package risk maps discrepancies to risk levels via the materiality rubric.
package risk

import (
	"github.com/auditgen/discrepancy-engine/internal/domain"
)

// Service scores discrepancies against an injected rubric snapshot.
type Service struct {
	rubric domain.RiskRubric
}

// NewService creates a scorer over the given rubric snapshot.
func NewService(rubric domain.RiskRubric) *Service {
	return &Service{rubric: rubric}
}

// Score resolves the risk level for a classified group. A missing rubric
// entry is a configuration gap that fails the whole run; the engine never
// fabricates a risk level.
func (s *Service) Score(t domain.DiscrepancyType, g domain.IssueGroup) (domain.RiskLevel, error) {
	return s.rubric.Lookup(domain.RubricKey{
		Type:     t,
		Severity: g.MaxSeverity(),
		Category: g.Category,
	})
}
