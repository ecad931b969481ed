package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/auditgen/discrepancy-engine/internal/domain"
	"github.com/auditgen/discrepancy-engine/internal/usecase/normalize"
)

// rubricFile is the on-disk YAML shape of the materiality rubric.
type rubricFile struct {
	Rules []rubricRule `yaml:"rules"`
}

type rubricRule struct {
	DiscrepancyType string `yaml:"discrepancy_type"`
	Severity        string `yaml:"severity"`
	Category        string `yaml:"category"`
	RiskLevel       string `yaml:"risk_level"`
}

// LoadRubric reads a materiality rubric from a YAML file. Every rule is
// validated against the canonical taxonomy; a malformed rule fails loading
// rather than producing a rubric that guesses.
func LoadRubric(path string) (domain.RiskRubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RiskRubric{}, fmt.Errorf("read rubric %s: %w", path, err)
	}

	var file rubricFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.RiskRubric{}, fmt.Errorf("parse rubric %s: %w", path, err)
	}

	entries := make(map[domain.RubricKey]domain.RiskLevel, len(file.Rules))
	for i, rule := range file.Rules {
		key, level, err := parseRule(rule)
		if err != nil {
			return domain.RiskRubric{}, fmt.Errorf("rubric %s rule %d: %w", path, i, err)
		}
		entries[key] = level
	}

	return domain.NewRiskRubric(entries), nil
}

func parseRule(rule rubricRule) (domain.RubricKey, domain.RiskLevel, error) {
	switch domain.DiscrepancyType(rule.DiscrepancyType) {
	case domain.DiscrepancyMissing, domain.DiscrepancyInconsistent, domain.DiscrepancyContradictory:
	default:
		return domain.RubricKey{}, "", fmt.Errorf("unknown discrepancy type %q", rule.DiscrepancyType)
	}

	severity, ok := domain.ParseSeverity(rule.Severity)
	if !ok {
		return domain.RubricKey{}, "", fmt.Errorf("unknown severity %q", rule.Severity)
	}
	category, ok := domain.ParseCategory(rule.Category)
	if !ok {
		return domain.RubricKey{}, "", fmt.Errorf("unknown category %q", rule.Category)
	}
	level, ok := domain.ParseRiskLevel(rule.RiskLevel)
	if !ok {
		return domain.RubricKey{}, "", fmt.Errorf("unknown risk level %q", rule.RiskLevel)
	}

	return domain.RubricKey{
		Type:     domain.DiscrepancyType(rule.DiscrepancyType),
		Severity: severity,
		Category: category,
	}, level, nil
}

// DefaultRubric is the built-in materiality rubric: risk tracks the maximum
// member severity, with contradictory compliance and financial reporting
// narratives escalated one level. Deployments with their own audit policy
// load a rubric file instead.
func DefaultRubric() domain.RiskRubric {
	types := []domain.DiscrepancyType{
		domain.DiscrepancyMissing,
		domain.DiscrepancyInconsistent,
		domain.DiscrepancyContradictory,
	}
	severities := []domain.Severity{domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow}
	categories := []domain.Category{
		domain.CategoryInternalControl,
		domain.CategoryFinancialReporting,
		domain.CategoryCompliance,
	}

	entries := make(map[domain.RubricKey]domain.RiskLevel)
	for _, t := range types {
		for _, severity := range severities {
			for _, category := range categories {
				level := domain.RiskLevel(severity) // taxonomies share their scale
				if t == domain.DiscrepancyContradictory && category != domain.CategoryInternalControl {
					level = escalate(level)
				}
				entries[domain.RubricKey{Type: t, Severity: severity, Category: category}] = level
			}
		}
	}
	return domain.NewRiskRubric(entries)
}

func escalate(level domain.RiskLevel) domain.RiskLevel {
	switch level {
	case domain.RiskLow:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}

// LoadSynonyms reads a synonym table from a YAML file and merges it over the
// built-in defaults.
func LoadSynonyms(path string) (normalize.SynonymTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return normalize.SynonymTable{}, fmt.Errorf("read synonyms %s: %w", path, err)
	}

	var table normalize.SynonymTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return normalize.SynonymTable{}, fmt.Errorf("parse synonyms %s: %w", path, err)
	}

	return normalize.DefaultSynonymTable().Merge(table), nil
}
