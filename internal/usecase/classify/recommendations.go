package classify

import "github.com/auditgen/discrepancy-engine/internal/domain"

// Recommendations come from a fixed template keyed on discrepancy type and
// category, never from a generative model, so the engine's output stays
// reproducible and model-independent. Generative rewriting of this prose is a
// reporting-layer concern behind a separate seam.
func Recommendations(t domain.DiscrepancyType, c domain.Category) []string {
	if recs, ok := templates[t][c]; ok {
		return append([]string(nil), recs...)
	}
	return []string{"Review the underlying findings with all reporting parties and document the resolution."}
}

var templates = map[domain.DiscrepancyType]map[domain.Category][]string{
	domain.DiscrepancyMissing: {
		domain.CategoryInternalControl: {
			"Confirm whether the control deficiency was evaluated by the sources that omit it.",
			"Reconcile control testing scope across internal audit, regulatory filing, and vendor reports.",
		},
		domain.CategoryFinancialReporting: {
			"Verify whether the omitted sources considered the reporting issue below their materiality threshold.",
			"Request supporting workpapers to confirm the issue was assessed in all report streams.",
		},
		domain.CategoryCompliance: {
			"Determine whether the compliance gap falls outside the omitting source's regulatory scope.",
			"Escalate unilateral compliance findings to the compliance officer for cross-source confirmation.",
		},
	},
	domain.DiscrepancyInconsistent: {
		domain.CategoryInternalControl: {
			"Align severity classifications for the control deficiency using the shared materiality rubric.",
			"Investigate whether remediation progress between report dates explains the severity gap.",
		},
		domain.CategoryFinancialReporting: {
			"Reassess the misstatement magnitude driving the differing severity ratings.",
			"Document the rationale for each source's severity judgment in the audit trail.",
		},
		domain.CategoryCompliance: {
			"Obtain a unified legal assessment of the compliance exposure to settle the severity dispute.",
			"Check whether regulatory guidance changed between the report dates of the disagreeing sources.",
		},
	},
	domain.DiscrepancyContradictory: {
		domain.CategoryInternalControl: {
			"Reconcile the conflicting accounts of the control deficiency with the process owner.",
			"Compare management responses across sources and resolve contradictions before sign-off.",
		},
		domain.CategoryFinancialReporting: {
			"Trace both narratives to the underlying ledger evidence to determine which account is accurate.",
			"Hold a reconciliation session between preparers of the conflicting reports.",
		},
		domain.CategoryCompliance: {
			"Resolve the conflicting compliance narratives with the relevant regulator or counsel.",
			"Record which source's account was adopted and why, for the audit trail.",
		},
	},
}
