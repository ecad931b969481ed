package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/auditgen/discrepancy-engine/internal/domain"
	"github.com/auditgen/discrepancy-engine/internal/usecase/compare"
)

// documentFile is the on-disk shape of one source's audit document:
// a document ID plus the raw findings array from document ingestion.
type documentFile struct {
	DocumentID string              `json:"document_id"`
	Source     string              `json:"source,omitempty"`
	Findings   []domain.RawFinding `json:"findings"`
}

// LoadDocument reads a source document file and validates it against the
// source the caller expects it to contain.
func LoadDocument(path string, source domain.SourceType) (compare.SourceDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return compare.SourceDocument{}, fmt.Errorf("read document %s: %w", path, err)
	}

	var doc documentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return compare.SourceDocument{}, fmt.Errorf("parse document %s: %w", path, err)
	}

	if doc.DocumentID == "" {
		return compare.SourceDocument{}, fmt.Errorf("document %s has no document_id", path)
	}
	if doc.Source != "" && doc.Source != string(source) {
		return compare.SourceDocument{}, fmt.Errorf("document %s declares source %q but was passed as %q", path, doc.Source, source)
	}

	return compare.SourceDocument{
		Source:     source,
		DocumentID: doc.DocumentID,
		Findings:   doc.Findings,
	}, nil
}
