package domain

// RubricKey indexes the materiality rubric.
type RubricKey struct {
	Type     DiscrepancyType
	Severity Severity
	Category Category
}

// RiskRubric maps discrepancy characteristics to a risk level. The rubric is
// injected configuration: materiality thresholds are an audit-policy decision
// made outside this engine, and the engine never guesses a missing entry.
type RiskRubric struct {
	entries map[RubricKey]RiskLevel
}

// NewRiskRubric copies entries into an immutable rubric.
func NewRiskRubric(entries map[RubricKey]RiskLevel) RiskRubric {
	copied := make(map[RubricKey]RiskLevel, len(entries))
	for k, v := range entries {
		copied[k] = v
	}
	return RiskRubric{entries: copied}
}

// Lookup resolves the risk level for a rubric key. A missing entry is a
// configuration gap and fails the whole run.
func (r RiskRubric) Lookup(key RubricKey) (RiskLevel, error) {
	level, ok := r.entries[key]
	if !ok {
		return "", &MissingRubricEntryError{Key: key}
	}
	return level, nil
}

// Len returns the number of configured entries.
func (r RiskRubric) Len() int {
	return len(r.entries)
}
