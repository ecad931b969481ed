// Package normalize canonicalizes raw findings and attaches embeddings.
package normalize

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/auditgen/discrepancy-engine/internal/domain"
)

// DefaultConcurrency bounds parallel embedding calls per comparison run.
const DefaultConcurrency = 8

// Embedder is the external embedding capability consumed by the normalizer.
// Implementations own their timeout and retry budget; an error here means the
// budget is exhausted and the finding degrades.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Redactor strips sensitive identifiers from text before it leaves the
// process boundary toward the embedding service.
type Redactor interface {
	Redact(input string) (string, error)
}

// Logger is the structured warning/info port, matching the orchestrator's.
type Logger interface {
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
}

// SourceFindings is one source's slice of the comparison input.
type SourceFindings struct {
	Source   domain.SourceType
	Findings []domain.RawFinding
}

// Result is the normalizer output: immutable findings plus recoverable
// per-finding warnings.
type Result struct {
	Findings []domain.Finding
	Warnings []domain.Warning
}

// Service implements the finding normalizer.
type Service struct {
	embedder    Embedder
	redactor    Redactor
	logger      Logger
	concurrency int
}

// NewService wires a normalizer. Redactor and logger are optional.
func NewService(embedder Embedder, redactor Redactor, logger Logger, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Service{
		embedder:    embedder,
		redactor:    redactor,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Normalize canonicalizes every raw finding and attaches embeddings through a
// bounded worker pool. It returns only when every embedding call has completed
// or exhausted its budget, so the grouper never observes a partial set.
func (s *Service) Normalize(ctx context.Context, inputs []SourceFindings, synonyms SynonymTable) (Result, error) {
	var result Result

	for _, input := range inputs {
		for _, raw := range input.Findings {
			finding, warning, ok := s.canonicalize(ctx, input.Source, raw, synonyms)
			if !ok {
				result.Warnings = append(result.Warnings, warning)
				continue
			}
			result.Findings = append(result.Findings, finding)
		}
	}

	if err := s.attachEmbeddings(ctx, result.Findings); err != nil {
		return Result{}, err
	}

	// Embedding failures degrade the finding rather than failing the run.
	for i := range result.Findings {
		if result.Findings[i].Degraded {
			result.Warnings = append(result.Warnings, domain.Warning{
				Code:      domain.WarningEmbeddingUnavailable,
				FindingID: result.Findings[i].FindingID,
				Message:   "embedding unavailable after retries; similarity falls back to lexical overlap",
			})
		}
	}

	return result, nil
}

// canonicalize maps one raw record into the uniform internal shape.
func (s *Service) canonicalize(ctx context.Context, source domain.SourceType, raw domain.RawFinding, synonyms SynonymTable) (domain.Finding, domain.Warning, bool) {
	severity, ok := synonyms.ResolveSeverity(raw.Severity)
	if !ok {
		return domain.Finding{}, s.taxonomyWarning(ctx, raw.FindingID, "severity", raw.Severity), false
	}

	category, ok := synonyms.ResolveCategory(raw.Category)
	if !ok {
		return domain.Finding{}, s.taxonomyWarning(ctx, raw.FindingID, "category", raw.Category), false
	}

	comparable := Fold(raw.Description)
	if response := Fold(raw.ManagementResponse); response != "" {
		comparable += " " + response
	}

	return domain.Finding{
		FindingID:           raw.FindingID,
		Source:              source,
		Category:            category,
		Severity:            severity,
		Description:         strings.TrimSpace(raw.Description),
		ManagementResponse:  strings.TrimSpace(raw.ManagementResponse),
		RemediationTimeline: strings.TrimSpace(raw.RemediationTimeline),
		Comparable:          comparable,
	}, domain.Warning{}, true
}

func (s *Service) taxonomyWarning(ctx context.Context, findingID, field, value string) domain.Warning {
	err := &domain.TaxonomyValueError{FindingID: findingID, Field: field, Value: value}
	if s.logger != nil {
		s.logger.LogWarning(ctx, "finding excluded from comparison", map[string]interface{}{
			"findingID": findingID,
			"field":     field,
			"value":     value,
		})
	}
	return domain.Warning{
		Code:      domain.WarningUnrecognizedTaxonomy,
		FindingID: findingID,
		Message:   err.Error(),
	}
}

// attachEmbeddings issues embedding calls concurrently and reassembles the
// results by index. Calls for independent findings carry no ordering
// dependency; the group wait is the synchronization barrier before grouping.
func (s *Service) attachEmbeddings(ctx context.Context, findings []domain.Finding) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)

	for i := range findings {
		group.Go(func() error {
			// Honor cancellation before each embedding call.
			if err := groupCtx.Err(); err != nil {
				return err
			}

			text := findings[i].Comparable
			if s.redactor != nil {
				redacted, err := s.redactor.Redact(text)
				if err == nil {
					text = redacted
				}
			}

			vector, err := s.embedder.Embed(groupCtx, text)
			if err != nil {
				if groupCtx.Err() != nil {
					return groupCtx.Err()
				}
				findings[i].Degraded = true
				if s.logger != nil {
					s.logger.LogWarning(groupCtx, "embedding degraded", map[string]interface{}{
						"findingID": findings[i].FindingID,
						"error":     err.Error(),
					})
				}
				return nil
			}

			findings[i].Embedding = vector
			return nil
		})
	}

	return group.Wait()
}
