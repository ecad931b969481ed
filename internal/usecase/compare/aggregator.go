package compare

import (
	"github.com/auditgen/discrepancy-engine/internal/domain"
	"github.com/auditgen/discrepancy-engine/internal/usecase/normalize"
)

// degradedDiscount halves the confidence of any group carrying a finding
// whose embedding could not be obtained.
const degradedDiscount = 0.5

// aggregate folds per-group results into the immutable ComparisonResult.
// Discrepancies keep the groups' deterministic creation order.
func (o *Orchestrator) aggregate(comparisonID string, documents []string, normalized normalize.Result, groups []domain.IssueGroup, classified []classification) domain.ComparisonResult {
	consistent := 0
	discrepancies := make([]domain.Discrepancy, 0, len(classified))
	for _, c := range classified {
		if c.kind == domain.DiscrepancyConsistent {
			consistent++
			continue
		}
		discrepancies = append(discrepancies, c.discrepancy)
	}

	degraded := 0
	for _, f := range normalized.Findings {
		if f.Degraded {
			degraded++
		}
	}

	score, trivial := consistencyScore(consistent, len(groups))

	return domain.ComparisonResult{
		ComparisonID:      comparisonID,
		DocumentsCompared: documents,
		ComparisonDate:    o.deps.Clock().UTC(),
		Discrepancies:     discrepancies,
		ConsistencyScore:  score,
		ConfidenceLevel:   confidenceLevel(groups),
		Metadata: domain.ComparisonMetadata{
			Trivial:          trivial,
			TotalGroups:      len(groups),
			ConsistentGroups: consistent,
			DegradedFindings: degraded,
			Warnings:         normalized.Warnings,
		},
	}
}

// consistencyScore is the fraction of groups classified consistent. A
// comparison with zero groups scores 1.0 by convention (nothing to disagree
// on) and is flagged trivial.
func consistencyScore(consistent, total int) (float64, bool) {
	if total == 0 {
		return 1.0, true
	}
	return clamp01(float64(consistent) / float64(total)), false
}

// confidenceLevel is the mean per-group confidence: the similarity evidence
// that formed the group, discounted for degraded members.
func confidenceLevel(groups []domain.IssueGroup) float64 {
	if len(groups) == 0 {
		return 1.0
	}
	total := 0.0
	for _, g := range groups {
		confidence := g.Confidence
		if g.Degraded() {
			confidence *= degradedDiscount
		}
		total += confidence
	}
	return clamp01(total / float64(len(groups)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
