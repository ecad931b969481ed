// Package compare orchestrates the comparison pipeline:
// normalize -> group -> classify -> score -> aggregate.
package compare

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/auditgen/discrepancy-engine/internal/determinism"
	"github.com/auditgen/discrepancy-engine/internal/domain"
	"github.com/auditgen/discrepancy-engine/internal/usecase/classify"
	"github.com/auditgen/discrepancy-engine/internal/usecase/group"
	"github.com/auditgen/discrepancy-engine/internal/usecase/normalize"
	"github.com/auditgen/discrepancy-engine/internal/usecase/risk"
)

// Logger is the structured logging port for warnings and info.
type Logger interface {
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
}

// Store persists comparison results for the reporting collaborators.
type Store interface {
	SaveComparison(ctx context.Context, result domain.ComparisonResult) error
	Close() error
}

// SourceDocument is one source's contribution to a comparison.
type SourceDocument struct {
	Source     domain.SourceType
	DocumentID string
	Findings   []domain.RawFinding
}

// Request describes one comparison run.
type Request struct {
	// ComparisonID overrides the derived deterministic ID when set.
	ComparisonID string
	Documents    []SourceDocument
}

// Snapshot is the configuration captured at run start. No global state is
// consulted mid-run, so concurrent configuration reloads never affect an
// in-flight comparison.
type Snapshot struct {
	GroupThreshold     float64
	AgreementThreshold float64
	Synonyms           normalize.SynonymTable
	Rubric             domain.RiskRubric
}

// Deps captures the orchestrator's collaborators.
type Deps struct {
	Normalizer *normalize.Service
	Logger     Logger       // Optional
	Store      Store        // Optional: persistence collaborator
	Tracer     trace.Tracer // Optional: stage spans
	Clock      func() time.Time
}

// Orchestrator implements the comparison flow. Each run is purely functional
// stage to stage; independent runs share no mutable state and may execute
// concurrently.
type Orchestrator struct {
	deps Deps
}

// NewOrchestrator wires the orchestrator dependencies.
func NewOrchestrator(deps Deps) *Orchestrator {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Tracer == nil {
		deps.Tracer = noop.NewTracerProvider().Tracer("compare")
	}
	return &Orchestrator{deps: deps}
}

func (o *Orchestrator) validate(req Request) error {
	if o.deps.Normalizer == nil {
		return errors.New("normalizer is required")
	}
	if len(req.Documents) == 0 {
		return errors.New("at least one source document is required")
	}
	seen := make(map[domain.SourceType]bool)
	for _, doc := range req.Documents {
		if _, ok := domain.ParseSourceType(string(doc.Source)); !ok {
			return fmt.Errorf("unknown source type %q", doc.Source)
		}
		if seen[doc.Source] {
			return fmt.Errorf("duplicate source %q in comparison request", doc.Source)
		}
		seen[doc.Source] = true
		if doc.DocumentID == "" {
			return fmt.Errorf("document for source %q has no document ID", doc.Source)
		}
	}
	return nil
}

// Run executes one comparison. Cancellation is honored between stages and
// before each embedding call; once aggregation begins the run completes
// (sub-second, idempotent to rerun).
func (o *Orchestrator) Run(ctx context.Context, req Request, snap Snapshot) (domain.ComparisonResult, error) {
	if err := o.validate(req); err != nil {
		return domain.ComparisonResult{}, err
	}
	if snap.Rubric.Len() == 0 {
		return domain.ComparisonResult{}, errors.New("risk rubric snapshot is empty")
	}

	documents := make([]string, 0, len(req.Documents))
	expected := make([]domain.SourceType, 0, len(req.Documents))
	inputs := make([]normalize.SourceFindings, 0, len(req.Documents))
	for _, doc := range req.Documents {
		documents = append(documents, doc.DocumentID)
		expected = append(expected, doc.Source)
		inputs = append(inputs, normalize.SourceFindings{Source: doc.Source, Findings: doc.Findings})
	}

	comparisonID := req.ComparisonID
	if comparisonID == "" {
		comparisonID = determinism.ComparisonID(documents)
	}

	ctx, span := o.deps.Tracer.Start(ctx, "comparison.run",
		trace.WithAttributes(attribute.String("comparison.id", comparisonID)))
	defer span.End()

	// Stage 1: normalize (includes the embedding barrier).
	normalized, err := o.runNormalize(ctx, inputs, snap)
	if err != nil {
		return domain.ComparisonResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.ComparisonResult{}, err
	}

	// Stage 2: group.
	groups := o.runGroup(ctx, normalized.Findings, snap)
	if err := ctx.Err(); err != nil {
		return domain.ComparisonResult{}, err
	}

	// Stage 3+4: classify and score.
	classified, err := o.runClassify(ctx, groups, expected, snap)
	if err != nil {
		return domain.ComparisonResult{}, err
	}

	// Stage 5: aggregate. Not cancellable; the result is assembled from what
	// the earlier stages already computed.
	result := o.aggregate(comparisonID, documents, normalized, groups, classified)

	if o.deps.Store != nil {
		if err := o.deps.Store.SaveComparison(ctx, result); err != nil {
			// Persistence is a collaborator concern; a save failure must not
			// invalidate a computed comparison.
			if o.deps.Logger != nil {
				o.deps.Logger.LogWarning(ctx, "failed to persist comparison", map[string]interface{}{
					"comparisonID": comparisonID,
					"error":        err.Error(),
				})
			}
		}
	}

	if o.deps.Logger != nil {
		o.deps.Logger.LogInfo(ctx, "comparison completed", map[string]interface{}{
			"comparisonID":  comparisonID,
			"groups":        len(groups),
			"discrepancies": len(result.Discrepancies),
		})
	}

	return result, nil
}

func (o *Orchestrator) runNormalize(ctx context.Context, inputs []normalize.SourceFindings, snap Snapshot) (normalize.Result, error) {
	ctx, span := o.deps.Tracer.Start(ctx, "comparison.normalize")
	defer span.End()

	normalized, err := o.deps.Normalizer.Normalize(ctx, inputs, snap.Synonyms)
	if err != nil {
		return normalize.Result{}, fmt.Errorf("normalize findings: %w", err)
	}
	span.SetAttributes(
		attribute.Int("findings.count", len(normalized.Findings)),
		attribute.Int("warnings.count", len(normalized.Warnings)),
	)
	return normalized, nil
}

func (o *Orchestrator) runGroup(ctx context.Context, findings []domain.Finding, snap Snapshot) []domain.IssueGroup {
	_, span := o.deps.Tracer.Start(ctx, "comparison.group")
	defer span.End()

	groups := group.NewService(snap.GroupThreshold).Group(findings)
	span.SetAttributes(attribute.Int("groups.count", len(groups)))
	return groups
}

// classification pairs a group with its decision-table outcome and, for
// non-consistent outcomes, the scored discrepancy.
type classification struct {
	kind        domain.DiscrepancyType
	discrepancy domain.Discrepancy
}

func (o *Orchestrator) runClassify(ctx context.Context, groups []domain.IssueGroup, expected []domain.SourceType, snap Snapshot) ([]classification, error) {
	_, span := o.deps.Tracer.Start(ctx, "comparison.classify")
	defer span.End()

	classifier := classify.NewService(snap.AgreementThreshold)
	scorer := risk.NewService(snap.Rubric)

	classified := make([]classification, 0, len(groups))
	for _, g := range groups {
		kind := classifier.Classify(g, expected)
		if kind == domain.DiscrepancyConsistent {
			classified = append(classified, classification{kind: kind})
			continue
		}

		discrepancy := classifier.BuildDiscrepancy(kind, g, expected)
		level, err := scorer.Score(kind, g)
		if err != nil {
			// A rubric gap is fatal for the run: a risk level is never guessed.
			return nil, fmt.Errorf("score discrepancy for findings %v: %w", g.FindingIDs(), err)
		}
		discrepancy.RiskLevel = level
		classified = append(classified, classification{kind: kind, discrepancy: discrepancy})
	}
	return classified, nil
}
