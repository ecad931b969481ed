// Package classify derives discrepancy types from issue groups.
package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/auditgen/discrepancy-engine/internal/domain"
	"github.com/auditgen/discrepancy-engine/internal/usecase/group"
)

// DefaultAgreementThreshold separates consistent narratives from
// contradictory ones when presence and severity already match.
const DefaultAgreementThreshold = 0.90

// Service is the state-free per-group decision table.
type Service struct {
	agreementThreshold float64
}

// NewService creates a classifier. threshold <= 0 uses the default.
func NewService(agreementThreshold float64) *Service {
	if agreementThreshold <= 0 {
		agreementThreshold = DefaultAgreementThreshold
	}
	return &Service{agreementThreshold: agreementThreshold}
}

// Classify evaluates the decision table in precedence order. expected is the
// set of sources that are part of this comparison.
func (s *Service) Classify(g domain.IssueGroup, expected []domain.SourceType) domain.DiscrepancyType {
	allPresent := true
	for _, source := range expected {
		if !g.HasSource(source) {
			allPresent = false
			break
		}
	}

	severitiesMatch := true
	for _, m := range g.Members[1:] {
		if m.Severity != g.Members[0].Severity {
			severitiesMatch = false
			break
		}
	}

	agreement := textualAgreement(g)

	switch {
	case allPresent && severitiesMatch && agreement >= s.agreementThreshold:
		return domain.DiscrepancyConsistent
	case !allPresent:
		return domain.DiscrepancyMissing
	case !severitiesMatch:
		return domain.DiscrepancyInconsistent
	default:
		return domain.DiscrepancyContradictory
	}
}

// BuildDiscrepancy composes the discrepancy record for a classified group.
// The risk level is filled in by the risk scorer afterwards.
func (s *Service) BuildDiscrepancy(t domain.DiscrepancyType, g domain.IssueGroup, expected []domain.SourceType) domain.Discrepancy {
	return domain.Discrepancy{
		Type:             t,
		Description:      describe(t, g, expected),
		AffectedSections: affectedSections(g),
		Recommendations:  Recommendations(t, g.Category),
		FindingIDs:       g.FindingIDs(),
	}
}

// textualAgreement is the minimum pairwise member similarity, 1.0 for a
// singleton. Every pair must agree for the group narrative to count as
// consistent.
func textualAgreement(g domain.IssueGroup) float64 {
	agreement := 1.0
	for i := 0; i < len(g.Members); i++ {
		for j := i + 1; j < len(g.Members); j++ {
			sim := group.Similarity(g.Members[i], g.Members[j])
			if sim < agreement {
				agreement = sim
			}
		}
	}
	return agreement
}

// affectedSections is the sorted union of category:source tags of members.
func affectedSections(g domain.IssueGroup) []string {
	seen := make(map[string]bool)
	sections := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		tag := fmt.Sprintf("%s:%s", m.Category, m.Source)
		if !seen[tag] {
			seen[tag] = true
			sections = append(sections, tag)
		}
	}
	sort.Strings(sections)
	return sections
}

func describe(t domain.DiscrepancyType, g domain.IssueGroup, expected []domain.SourceType) string {
	present := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		present = append(present, string(m.Source))
	}

	switch t {
	case domain.DiscrepancyMissing:
		absent := make([]string, 0, len(expected))
		for _, source := range expected {
			if !g.HasSource(source) {
				absent = append(absent, string(source))
			}
		}
		return fmt.Sprintf("issue reported by %s is not addressed by %s: %s",
			strings.Join(present, ", "), strings.Join(absent, ", "), snippet(g.Representative().Description))
	case domain.DiscrepancyInconsistent:
		ratings := make([]string, 0, len(g.Members))
		for _, m := range g.Members {
			ratings = append(ratings, fmt.Sprintf("%s=%s", m.Source, m.Severity))
		}
		return fmt.Sprintf("sources disagree on severity (%s): %s",
			strings.Join(ratings, ", "), snippet(g.Representative().Description))
	case domain.DiscrepancyContradictory:
		return fmt.Sprintf("sources %s agree on severity %s but their narratives diverge: %s",
			strings.Join(present, ", "), g.Members[0].Severity, snippet(g.Representative().Description))
	default:
		return fmt.Sprintf("sources %s report the issue consistently: %s",
			strings.Join(present, ", "), snippet(g.Representative().Description))
	}
}

// snippet bounds descriptions embedded in discrepancy text.
func snippet(s string) string {
	const limit = 120
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
