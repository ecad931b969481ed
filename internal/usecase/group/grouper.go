// Package group clusters findings across sources into issue groups.
package group

import (
	"sort"

	"github.com/auditgen/discrepancy-engine/internal/domain"
)

// DefaultThreshold is the similarity floor for joining an existing group.
const DefaultThreshold = 0.80

// Service implements greedy first-fit grouping. Greedy placement over a fixed
// total order trades clustering optimality for reproducibility, which an
// audit trail requires.
type Service struct {
	threshold float64
}

// NewService creates a grouper with the given similarity threshold.
// threshold <= 0 uses the default.
func NewService(threshold float64) *Service {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Service{threshold: threshold}
}

// openGroup tracks a group under construction along with the similarities at
// which members joined, the evidence behind the group's confidence.
type openGroup struct {
	members  []domain.Finding
	joinSims []float64
}

// Group clusters findings into issue groups. The input is processed in a
// fixed total order (category, then source rank, then finding ID), so the
// result is independent of input permutation.
func (s *Service) Group(findings []domain.Finding) []domain.IssueGroup {
	ordered := make([]domain.Finding, len(findings))
	copy(ordered, findings)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Category != ordered[j].Category {
			return ordered[i].Category < ordered[j].Category
		}
		if ordered[i].Source != ordered[j].Source {
			return ordered[i].Source.Rank() < ordered[j].Source.Rank()
		}
		return ordered[i].FindingID < ordered[j].FindingID
	})

	var open []*openGroup

	for _, finding := range ordered {
		best := -1
		bestSim := 0.0

		// Candidates are group representatives in the same category without
		// a member from this finding's source. Groups are visited in creation
		// order, so an equal-similarity tie resolves to the group whose
		// representative has the lowest finding ID.
		for idx, g := range open {
			representative := g.members[0]
			if representative.Category != finding.Category {
				continue
			}
			if hasSource(g.members, finding.Source) {
				continue
			}
			sim := Similarity(finding, representative)
			if sim >= s.threshold && sim > bestSim {
				best = idx
				bestSim = sim
			}
		}

		if best < 0 {
			open = append(open, &openGroup{members: []domain.Finding{finding}})
			continue
		}

		open[best].members = append(open[best].members, finding)
		open[best].joinSims = append(open[best].joinSims, bestSim)
	}

	groups := make([]domain.IssueGroup, 0, len(open))
	for _, g := range open {
		groups = append(groups, domain.IssueGroup{
			Category:   g.members[0].Category,
			Members:    g.members,
			Confidence: confidence(g.joinSims),
		})
	}
	return groups
}

// confidence is the similarity evidence used to form the group: the mean of
// the join similarities, or 1.0 for a singleton, whose placement carried no
// ambiguity under the threshold policy.
func confidence(joinSims []float64) float64 {
	if len(joinSims) == 0 {
		return 1.0
	}
	total := 0.0
	for _, sim := range joinSims {
		total += sim
	}
	return total / float64(len(joinSims))
}

func hasSource(members []domain.Finding, source domain.SourceType) bool {
	for _, m := range members {
		if m.Source == source {
			return true
		}
	}
	return false
}
