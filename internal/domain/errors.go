package domain

import "fmt"

// TaxonomyValueError reports a severity, category, or source value that has
// no mapping in the configured synonym table. Wrong severity classification is
// a compliance risk, so these are never silently coerced: the finding is
// excluded from the run with a recorded warning.
type TaxonomyValueError struct {
	FindingID string
	Field     string
	Value     string
}

func (e *TaxonomyValueError) Error() string {
	return fmt.Sprintf("unrecognized taxonomy value %q for %s (finding %s)", e.Value, e.Field, e.FindingID)
}

// EmbeddingUnavailableError reports that the embedding capability failed for
// a finding after exhausting its retry budget. The finding is carried forward
// as degraded rather than stalling the comparison.
type EmbeddingUnavailableError struct {
	FindingID string
	Err       error
}

func (e *EmbeddingUnavailableError) Error() string {
	return fmt.Sprintf("embedding unavailable for finding %s: %v", e.FindingID, e.Err)
}

func (e *EmbeddingUnavailableError) Unwrap() error {
	return e.Err
}

// MissingRubricEntryError reports a rubric key with no configured risk level.
// Fatal for the whole run: an unscored discrepancy is worse than a blocked
// comparison.
type MissingRubricEntryError struct {
	Key RubricKey
}

func (e *MissingRubricEntryError) Error() string {
	return fmt.Sprintf("no risk rubric entry for (%s, %s, %s)", e.Key.Type, e.Key.Severity, e.Key.Category)
}
